package analysis

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SituationAnalyzer turns a message plus its emotion assessment into an
// EmergencyAssessment via the language capability, with a deterministic
// degraded fallback when the capability fails or returns an out-of-contract
// response.
type SituationAnalyzer struct {
	judgments JudgmentProvider
	logger    *logrus.Entry
}

// SituationOutcome is the output of one situation stage.
type SituationOutcome struct {
	Assessment EmergencyAssessment
	Warnings   []string
}

func NewSituationAnalyzer(judgments JudgmentProvider, logger *logrus.Logger) *SituationAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &SituationAnalyzer{
		judgments: judgments,
		logger:    logger.WithField("component", "situation_analyzer"),
	}
}

// Analyze runs the situation stage. The emotion assessment biases the
// judgment: it rides along in the request, and an extreme-intensity emotion
// puts a floor under the judged severity so matching panic signals are not
// under-classified. Analyze always returns a usable assessment.
func (s *SituationAnalyzer) Analyze(ctx context.Context, message string, emotion EmotionAssessment, history []SessionEntry) SituationOutcome {
	outcome := SituationOutcome{}

	judged, err := s.judgments.SituationJudgment(ctx, SituationJudgmentRequest{
		Message:        message,
		Emotion:        emotion,
		HistorySummary: SummarizeHistory(history, 5),
	})
	if err == nil {
		if verr := validateSituation(judged); verr != nil {
			err = fmt.Errorf("%w: %v", ErrValidation, verr)
		}
	}
	if err != nil {
		s.logger.WithError(err).Warn("situation judgment unavailable, using degraded fallback")
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("situation judgment degraded: %v", err))
		outcome.Assessment = degradedSituation(emotion)
		return outcome
	}

	judged.RequiredResources = dedupe(judged.RequiredResources)
	if emotion.Intensity == IntensityExtreme && judged.Severity.Rank() < SeverityHigh.Rank() {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(
			"severity raised from %s to %s for extreme emotional intensity", judged.Severity, SeverityHigh))
		judged.Severity = SeverityHigh
	}

	outcome.Assessment = judged
	return outcome
}

func validateSituation(a EmergencyAssessment) error {
	if !a.Category.Valid() {
		return fmt.Errorf("unknown category %q", a.Category)
	}
	if !a.Severity.Valid() {
		return fmt.Errorf("unknown severity %q", a.Severity)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence %v out of [0,1]", a.Confidence)
	}
	return nil
}

// severityFromIntensity is the monotonic fallback mapping used when no
// situation judgment is available.
func severityFromIntensity(i Intensity) Severity {
	switch i {
	case IntensityExtreme:
		return SeverityCritical
	case IntensityHigh:
		return SeverityHigh
	case IntensityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func degradedSituation(emotion EmotionAssessment) EmergencyAssessment {
	return EmergencyAssessment{
		Category:           CategoryOther,
		Severity:           severityFromIntensity(emotion.Intensity),
		KeyDetails:         []string{},
		RecommendedActions: []string{},
		RequiredResources:  []string{},
		Confidence:         0.3,
		Reasoning:          "situation capability unavailable; severity derived from emotion intensity",
		Degraded:           true,
	}
}

// dedupe removes duplicate resources while preserving first-seen order.
func dedupe(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
