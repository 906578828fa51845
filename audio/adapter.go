// Package audio wraps the external audio feature-extraction capability and
// derives audio-sourced emotion assessments from its output.
package audio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/firstline-systems/calltriage/analysis"
)

// Extractor is the external feature-extraction capability: given a clip
// reference it produces raw signal descriptors. Implementations must honor
// context cancellation.
type Extractor interface {
	ExtractFeatures(ctx context.Context, ref string) (analysis.AudioFeatures, error)
}

// supportedExtensions are the clip formats the adapter will hand to the
// extractor at all.
var supportedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// Adapter normalizes extractor output into validated AudioFeatures and pairs
// it with a deterministic emotion classification. It implements
// analysis.AudioCapability.
type Adapter struct {
	extractor Extractor
	logger    *logrus.Entry
}

var _ analysis.AudioCapability = (*Adapter)(nil)

func NewAdapter(extractor Extractor, logger *logrus.Logger) *Adapter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Adapter{
		extractor: extractor,
		logger:    logger.WithField("component", "audio_adapter"),
	}
}

// Analyze extracts features for ref and classifies them. An unsupported
// format or an unusable extraction yields a typed error and no features;
// zero-filled defaults are never fabricated.
func (a *Adapter) Analyze(ctx context.Context, ref string, timestamp float64) (analysis.AudioFeatures, analysis.EmotionAssessment, error) {
	if a.extractor == nil {
		return analysis.AudioFeatures{}, analysis.EmotionAssessment{},
			fmt.Errorf("%w: no extractor configured", analysis.ErrUnsupportedModality)
	}

	ext := strings.ToLower(filepath.Ext(ref))
	if !supportedExtensions[ext] {
		return analysis.AudioFeatures{}, analysis.EmotionAssessment{},
			fmt.Errorf("%w: format %q", analysis.ErrUnsupportedModality, ext)
	}

	features, err := a.extractor.ExtractFeatures(ctx, ref)
	if err != nil {
		if errors.Is(err, analysis.ErrUnsupportedModality) || errors.Is(err, analysis.ErrExtraction) {
			return analysis.AudioFeatures{}, analysis.EmotionAssessment{}, err
		}
		return analysis.AudioFeatures{}, analysis.EmotionAssessment{},
			fmt.Errorf("%w: %v", analysis.ErrExtraction, err)
	}
	if err := ValidateFeatures(features); err != nil {
		return analysis.AudioFeatures{}, analysis.EmotionAssessment{},
			fmt.Errorf("%w: %v", analysis.ErrExtraction, err)
	}

	assessment := ClassifyEmotion(features, timestamp)
	a.logger.WithFields(logrus.Fields{
		"ref":     ref,
		"pitch":   features.Pitch,
		"volume":  features.Volume,
		"emotion": assessment.PrimaryEmotion,
	}).Debug("audio clip classified")
	return features, assessment, nil
}

// ValidateFeatures rejects descriptors outside their defined ranges.
func ValidateFeatures(f analysis.AudioFeatures) error {
	if f.Pitch < 0 || f.Pitch > 600 {
		return fmt.Errorf("pitch %v out of [0,600]", f.Pitch)
	}
	if f.Volume < 0 || f.Volume > 1 {
		return fmt.Errorf("volume %v out of [0,1]", f.Volume)
	}
	if f.SpeechRate < 0 || f.SpeechRate > 12 {
		return fmt.Errorf("speech rate %v out of [0,12]", f.SpeechRate)
	}
	if f.ProsodyScore < 0 || f.ProsodyScore > 1 {
		return fmt.Errorf("prosody score %v out of [0,1]", f.ProsodyScore)
	}
	return nil
}
