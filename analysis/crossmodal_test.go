package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func textAssessment(e Emotion, i Intensity, conf float64) EmotionAssessment {
	return EmotionAssessment{PrimaryEmotion: e, Intensity: i, Confidence: conf, SourceModality: ModalityText}
}

func audioAssessment(e Emotion, i Intensity, conf float64) EmotionAssessment {
	return EmotionAssessment{PrimaryEmotion: e, Intensity: i, Confidence: conf, SourceModality: ModalityAudio}
}

func TestValidateCrossModalAgreement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       EmotionAssessment
		audio      EmotionAssessment
		consistent bool
	}{
		{
			"exact match",
			textAssessment(EmotionPanic, IntensityHigh, 0.9),
			audioAssessment(EmotionPanic, IntensityHigh, 0.9),
			true,
		},
		{
			"compatible emotions close intensity",
			textAssessment(EmotionFear, IntensityHigh, 0.8),
			audioAssessment(EmotionPanic, IntensityExtreme, 0.9),
			true,
		},
		{
			"incompatible emotions",
			textAssessment(EmotionAnger, IntensityLow, 0.8),
			audioAssessment(EmotionSadness, IntensityExtreme, 0.7),
			false,
		},
		{
			"same emotion distant intensity",
			textAssessment(EmotionFear, IntensityLow, 0.8),
			audioAssessment(EmotionFear, IntensityExtreme, 0.8),
			true, // 0.6*1.0 + 0.4*0.0 = 0.6, right at the threshold
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateCrossModal(tc.text, tc.audio, DefaultAgreementThreshold)
			assert.Equal(t, tc.consistent, got.IsConsistent)
			assert.GreaterOrEqual(t, got.AgreementScore, 0.0)
			assert.LessOrEqual(t, got.AgreementScore, 1.0)
		})
	}
}

func TestValidateCrossModalSymmetric(t *testing.T) {
	t.Parallel()

	a := textAssessment(EmotionFear, IntensityMedium, 0.8)
	b := audioAssessment(EmotionPanic, IntensityExtreme, 0.6)

	forward := ValidateCrossModal(a, b, DefaultAgreementThreshold)
	backward := ValidateCrossModal(b, a, DefaultAgreementThreshold)
	assert.Equal(t, forward.AgreementScore, backward.AgreementScore)
	assert.Equal(t, forward.IsConsistent, backward.IsConsistent)
}

// Closer intensities and compatible emotions never score lower than
// farther/incompatible ones.
func TestValidateCrossModalMonotonic(t *testing.T) {
	t.Parallel()

	base := textAssessment(EmotionFear, IntensityHigh, 0.8)

	near := ValidateCrossModal(base, audioAssessment(EmotionFear, IntensityHigh, 0.8), 0.6)
	far := ValidateCrossModal(base, audioAssessment(EmotionFear, IntensityLow, 0.8), 0.6)
	assert.Greater(t, near.AgreementScore, far.AgreementScore)

	compatible := ValidateCrossModal(base, audioAssessment(EmotionPanic, IntensityHigh, 0.8), 0.6)
	incompatible := ValidateCrossModal(base, audioAssessment(EmotionAnger, IntensityHigh, 0.8), 0.6)
	assert.Greater(t, near.AgreementScore, compatible.AgreementScore)
	assert.Greater(t, compatible.AgreementScore, incompatible.AgreementScore)
}

func TestValidateCrossModalCustomThreshold(t *testing.T) {
	t.Parallel()

	text := textAssessment(EmotionFear, IntensityHigh, 0.8)
	audio := audioAssessment(EmotionPanic, IntensityExtreme, 0.9)

	strict := ValidateCrossModal(text, audio, 0.95)
	assert.False(t, strict.IsConsistent)

	lenient := ValidateCrossModal(text, audio, 0.5)
	assert.True(t, lenient.IsConsistent)
}
