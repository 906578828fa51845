package analysis

// DefaultTrendWindow is how many trailing assessments trend classification
// looks at when no window is configured.
const DefaultTrendWindow = 6

// ClassifyTrend classifies the trajectory of an intensity sequence, oldest
// first. window limits the observation to the trailing N values (0 means the
// whole sequence). The function is pure: the same inputs always produce the
// same classification.
//
// A sequence escalates when its ranks never drop across the window, the last
// value is the maximum seen, and there was a net rise; de-escalation is the
// mirror. A flat sequence of identical intensities is stable.
func ClassifyTrend(history []Intensity, window int) TemporalTrend {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	observed := len(history)

	if observed < 2 {
		return TemporalTrend{Direction: TrendInsufficientData, Window: observed}
	}

	nonDecreasing, nonIncreasing := true, true
	for i := 1; i < observed; i++ {
		prev, cur := history[i-1].Rank(), history[i].Rank()
		if cur < prev {
			nonDecreasing = false
		}
		if cur > prev {
			nonIncreasing = false
		}
	}

	first := history[0].Rank()
	last := history[observed-1].Rank()

	switch {
	case nonDecreasing && last > first:
		return TemporalTrend{Direction: TrendEscalating, Window: observed}
	case nonIncreasing && last < first:
		return TemporalTrend{Direction: TrendDeEscalating, Window: observed}
	default:
		return TemporalTrend{Direction: TrendStable, Window: observed}
	}
}

// IntensityHistory extracts the intensity sequence from session entries,
// preserving order.
func IntensityHistory(entries []SessionEntry) []Intensity {
	out := make([]Intensity, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Emotion.Intensity)
	}
	return out
}
