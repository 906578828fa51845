package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSituationAnalyzerJudgment(t *testing.T) {
	t.Parallel()

	judgments := &scriptedJudgments{
		situationFn: func(req SituationJudgmentRequest) (EmergencyAssessment, error) {
			assert.Equal(t, "my kitchen is on fire", req.Message)
			assert.Equal(t, EmotionFear, req.Emotion.PrimaryEmotion)
			return EmergencyAssessment{
				Category:           CategoryFire,
				Severity:           SeverityHigh,
				KeyDetails:         []string{"kitchen fire", "caller at home"},
				RecommendedActions: []string{"evacuate"},
				RequiredResources:  []string{"fire_engine", "ambulance", "fire_engine"},
				Confidence:         0.88,
			}, nil
		},
	}
	s := NewSituationAnalyzer(judgments, quietLogger())

	emotion := EmotionAssessment{PrimaryEmotion: EmotionFear, Intensity: IntensityHigh, Confidence: 0.9}
	out := s.Analyze(context.Background(), "my kitchen is on fire", emotion, nil)
	assert.Equal(t, CategoryFire, out.Assessment.Category)
	assert.Equal(t, SeverityHigh, out.Assessment.Severity)
	assert.Equal(t, []string{"fire_engine", "ambulance"}, out.Assessment.RequiredResources)
	assert.False(t, out.Assessment.Degraded)
	assert.Empty(t, out.Warnings)
}

func TestSituationAnalyzerDegradedFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		intensity Intensity
		want      Severity
	}{
		{"extreme maps to critical", IntensityExtreme, SeverityCritical},
		{"high maps to high", IntensityHigh, SeverityHigh},
		{"medium maps to medium", IntensityMedium, SeverityMedium},
		{"low maps to low", IntensityLow, SeverityLow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			judgments := &scriptedJudgments{
				situationFn: func(req SituationJudgmentRequest) (EmergencyAssessment, error) {
					return EmergencyAssessment{}, errors.New("capability timeout")
				},
			}
			s := NewSituationAnalyzer(judgments, quietLogger())

			out := s.Analyze(context.Background(), "help", EmotionAssessment{Intensity: tc.intensity}, nil)
			assert.True(t, out.Assessment.Degraded)
			assert.Equal(t, CategoryOther, out.Assessment.Category)
			assert.Equal(t, tc.want, out.Assessment.Severity)
			assert.Equal(t, 0.3, out.Assessment.Confidence)
			assert.NotNil(t, out.Assessment.KeyDetails)
			require.Len(t, out.Warnings, 1)
			assert.Contains(t, out.Warnings[0], "situation judgment degraded")
		})
	}
}

func TestSituationAnalyzerRejectsOutOfContractJudgment(t *testing.T) {
	t.Parallel()

	judgments := &scriptedJudgments{
		situationFn: func(req SituationJudgmentRequest) (EmergencyAssessment, error) {
			return EmergencyAssessment{Category: "earthquake_ish", Severity: SeverityHigh, Confidence: 0.8}, nil
		},
	}
	s := NewSituationAnalyzer(judgments, quietLogger())

	out := s.Analyze(context.Background(), "help", EmotionAssessment{Intensity: IntensityHigh}, nil)
	assert.True(t, out.Assessment.Degraded)
	assert.Equal(t, CategoryOther, out.Assessment.Category)
	assert.Equal(t, SeverityHigh, out.Assessment.Severity)
}

func TestSituationAnalyzerSeverityFloorForExtremeIntensity(t *testing.T) {
	t.Parallel()

	judgments := &scriptedJudgments{
		situationFn: func(req SituationJudgmentRequest) (EmergencyAssessment, error) {
			return EmergencyAssessment{Category: CategoryMedical, Severity: SeverityLow, Confidence: 0.7}, nil
		},
	}
	s := NewSituationAnalyzer(judgments, quietLogger())

	out := s.Analyze(context.Background(), "he collapsed", EmotionAssessment{PrimaryEmotion: EmotionPanic, Intensity: IntensityExtreme}, nil)
	assert.Equal(t, SeverityHigh, out.Assessment.Severity)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "severity raised")

	// A judged severity at or above the floor is left alone.
	judgments.situationFn = func(req SituationJudgmentRequest) (EmergencyAssessment, error) {
		return EmergencyAssessment{Category: CategoryMedical, Severity: SeverityLifeThreatening, Confidence: 0.7}, nil
	}
	out = s.Analyze(context.Background(), "he collapsed", EmotionAssessment{PrimaryEmotion: EmotionPanic, Intensity: IntensityExtreme}, nil)
	assert.Equal(t, SeverityLifeThreatening, out.Assessment.Severity)
	assert.Empty(t, out.Warnings)
}
