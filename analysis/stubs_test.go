package analysis

import (
	"context"
	"errors"
)

// scriptedJudgments is a deterministic JudgmentProvider for tests: fixed
// input -> fixed output, no live capability.
type scriptedJudgments struct {
	emotionFn   func(req TextJudgmentRequest) (EmotionAssessment, error)
	situationFn func(req SituationJudgmentRequest) (EmergencyAssessment, error)
}

func (s *scriptedJudgments) TextEmotionJudgment(_ context.Context, req TextJudgmentRequest) (EmotionAssessment, error) {
	if s.emotionFn == nil {
		return EmotionAssessment{}, errors.New("no emotion script")
	}
	return s.emotionFn(req)
}

func (s *scriptedJudgments) SituationJudgment(_ context.Context, req SituationJudgmentRequest) (EmergencyAssessment, error) {
	if s.situationFn == nil {
		return EmergencyAssessment{}, errors.New("no situation script")
	}
	return s.situationFn(req)
}

// scriptedAudio is a deterministic AudioCapability for tests.
type scriptedAudio struct {
	features   AudioFeatures
	assessment EmotionAssessment
	err        error
}

func (s *scriptedAudio) Analyze(_ context.Context, _ string, timestamp float64) (AudioFeatures, EmotionAssessment, error) {
	if s.err != nil {
		return AudioFeatures{}, EmotionAssessment{}, s.err
	}
	a := s.assessment
	a.Timestamp = timestamp
	return s.features, a, nil
}
