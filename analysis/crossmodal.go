package analysis

import "math"

// DefaultAgreementThreshold is the agreement score at or above which a text
// and an audio assessment are considered consistent.
const DefaultAgreementThreshold = 0.6

const (
	emotionMatchScore      = 1.0
	emotionCompatibleScore = 0.7

	// Weighting between emotion compatibility and intensity proximity.
	// Both terms are monotonic, so closer intensities and compatible
	// emotions never lower the score.
	emotionWeight   = 0.6
	intensityWeight = 0.4
)

// compatibleEmotions lists unordered pairs of distinct emotions that count
// as partial agreement between modalities.
var compatibleEmotions = map[[2]Emotion]bool{
	pairKey(EmotionFear, EmotionPanic):       true,
	pairKey(EmotionFear, EmotionDistress):    true,
	pairKey(EmotionPanic, EmotionDistress):   true,
	pairKey(EmotionSadness, EmotionDistress): true,
	pairKey(EmotionConfusion, EmotionFear):   true,
}

func pairKey(a, b Emotion) [2]Emotion {
	if a > b {
		a, b = b, a
	}
	return [2]Emotion{a, b}
}

// ValidateCrossModal reconciles a text-derived and an audio-derived emotion
// assessment from the same moment. The agreement score is symmetric: swapping
// the two assessments yields the same score.
func ValidateCrossModal(text, audio EmotionAssessment, threshold float64) CrossModalValidation {
	if threshold <= 0 {
		threshold = DefaultAgreementThreshold
	}
	score := agreementScore(text, audio)
	return CrossModalValidation{
		Text:           text,
		Audio:          audio,
		AgreementScore: score,
		IsConsistent:   score >= threshold,
	}
}

func agreementScore(a, b EmotionAssessment) float64 {
	var emotionScore float64
	switch {
	case a.PrimaryEmotion == b.PrimaryEmotion:
		emotionScore = emotionMatchScore
	case compatibleEmotions[pairKey(a.PrimaryEmotion, b.PrimaryEmotion)]:
		emotionScore = emotionCompatibleScore
	}

	maxDistance := float64(IntensityExtreme.Rank() - IntensityLow.Rank())
	distance := math.Abs(float64(a.Intensity.Rank() - b.Intensity.Rank()))
	intensityScore := 1 - distance/maxDistance

	return emotionWeight*emotionScore + intensityWeight*intensityScore
}

// preferHigherConfidence picks the assessment whose confidence is higher; on
// a tie the text assessment wins, since text carries the explicit report.
func preferHigherConfidence(text, audio EmotionAssessment) EmotionAssessment {
	if audio.Confidence > text.Confidence {
		return audio
	}
	return text
}
