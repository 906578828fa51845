package audio

import "github.com/firstline-systems/calltriage/analysis"

// Vocal thresholds for the rule-based audio emotion judgment. Pitch in Hz,
// volume as normalized RMS, speech rate as a syllables-per-second proxy.
const (
	pitchHigh = 220.0
	pitchLow  = 110.0

	volumeHigh = 0.7

	speechRateFast = 5.0
)

// ClassifyEmotion derives an audio-sourced emotion assessment from signal
// features. The rules are fixed and deterministic: the same features always
// classify the same way.
func ClassifyEmotion(f analysis.AudioFeatures, timestamp float64) analysis.EmotionAssessment {
	a := analysis.EmotionAssessment{
		SourceModality: analysis.ModalityAudio,
		Timestamp:      timestamp,
	}

	switch {
	case f.Pitch > pitchHigh && f.SpeechRate > speechRateFast:
		a.PrimaryEmotion = analysis.EmotionPanic
		a.Intensity = analysis.IntensityHigh
		a.Confidence = 0.9
		a.Reasoning = "high pitch with fast speech indicates panic"
	case f.Volume > volumeHigh:
		a.PrimaryEmotion = analysis.EmotionDistress
		a.Intensity = analysis.IntensityHigh
		a.Confidence = 0.85
		a.Reasoning = "elevated volume suggests distress"
	case f.Pitch > 0 && f.Pitch < pitchLow:
		a.PrimaryEmotion = analysis.EmotionSadness
		a.Intensity = analysis.IntensityMedium
		a.Confidence = 0.7
		a.Reasoning = "depressed pitch indicates sadness"
	default:
		a.PrimaryEmotion = analysis.EmotionNeutral
		a.Intensity = analysis.IntensityMedium
		a.Confidence = 0.5
		a.Reasoning = "no strong emotional cues in the audio signal"
	}

	// Strong prosody variability on an already-elevated signal reads as
	// extreme agitation.
	if a.Intensity == analysis.IntensityHigh && f.ProsodyScore > 0.8 {
		a.Intensity = analysis.IntensityExtreme
	}
	return a
}
