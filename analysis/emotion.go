package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// EmotionAnalyzer produces one EmotionAssessment per incoming message,
// combining the language capability's text judgment, the lexicon baseline,
// and, when audio is supplied, the audio capability's judgment cross-checked
// against the text one.
type EmotionAnalyzer struct {
	judgments JudgmentProvider
	audio     AudioCapability
	lexicon   Lexicon
	threshold float64
	window    int
	logger    *logrus.Entry
}

// EmotionOutcome is the full output of one emotion stage: the final
// assessment plus the cross-modal validation (when audio participated) and
// any non-fatal warnings.
type EmotionOutcome struct {
	Assessment EmotionAssessment
	CrossModal *CrossModalValidation
	Warnings   []string
}

// NewEmotionAnalyzer builds an analyzer. audio may be nil when no audio
// capability is wired; lexicon nil falls back to the built-in table;
// threshold <= 0 falls back to the default agreement threshold. window is
// the trailing-history span the urgency trend looks at (0 = whole history,
// negative falls back to the default).
func NewEmotionAnalyzer(judgments JudgmentProvider, audio AudioCapability, lexicon Lexicon, threshold float64, window int, logger *logrus.Logger) *EmotionAnalyzer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	if threshold <= 0 {
		threshold = DefaultAgreementThreshold
	}
	if window < 0 {
		window = DefaultTrendWindow
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &EmotionAnalyzer{
		judgments: judgments,
		audio:     audio,
		lexicon:   lexicon,
		threshold: threshold,
		window:    window,
		logger:    logger.WithField("component", "emotion_analyzer"),
	}
}

// Analyze runs the emotion stage for one message. history is the session's
// prior entries, read-only, used for trend context; audioRef is empty when
// the contact is text-only. Analyze always returns a usable assessment: a
// capability failure degrades to the lexicon estimate instead of erroring.
func (a *EmotionAnalyzer) Analyze(ctx context.Context, message, audioRef string, timestamp float64, history []SessionEntry) EmotionOutcome {
	outcome := EmotionOutcome{}

	baseline := a.lexicon.Score(message, timestamp)

	text, err := a.textJudgment(ctx, message, timestamp, history)
	if err != nil {
		a.logger.WithError(err).Warn("text judgment unavailable, using lexicon fallback")
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("text judgment degraded: %v", err))
		text = baseline
		text.Degraded = true
		if text.Confidence > lexiconFallbackCeiling {
			text.Confidence = lexiconFallbackCeiling
		}
	}

	final := text
	if audioRef != "" && a.audio != nil {
		features, audioAssessment, audioErr := a.audio.Analyze(ctx, audioRef, timestamp)
		switch {
		case audioErr == nil && text.Degraded:
			// Only the audio judgment succeeded; the lexicon estimate is not
			// a real text judgment, so the result carries the audio modality
			// alone rather than claiming a combined one.
			final = audioAssessment
			a.logger.WithFields(logrus.Fields{
				"pitch":   features.Pitch,
				"emotion": audioAssessment.PrimaryEmotion,
			}).Debug("text judgment degraded, audio assessment used alone")
		case audioErr == nil:
			validation := ValidateCrossModal(text, audioAssessment, a.threshold)
			outcome.CrossModal = &validation
			final = reconcile(text, audioAssessment, validation)
			if !validation.IsConsistent {
				outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(
					"text and audio disagree (agreement %.2f): text=%s/%s audio=%s/%s",
					validation.AgreementScore,
					text.PrimaryEmotion, text.Intensity,
					audioAssessment.PrimaryEmotion, audioAssessment.Intensity))
			}
			a.logger.WithFields(logrus.Fields{
				"pitch":      features.Pitch,
				"agreement":  validation.AgreementScore,
				"consistent": validation.IsConsistent,
			}).Debug("audio assessment reconciled")
		case errors.Is(audioErr, ErrUnsupportedModality), errors.Is(audioErr, ErrExtraction):
			a.logger.WithError(audioErr).Warn("audio unusable, continuing text-only")
			outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("audio skipped: %v", audioErr))
		default:
			// Timeouts and transport failures degrade the same way as
			// unusable audio.
			a.logger.WithError(audioErr).Warn("audio capability failed, continuing text-only")
			outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("audio capability failed: %v", audioErr))
		}
	}

	trend := ClassifyTrend(IntensityHistory(history), a.window)
	final.IsUrgent = urgency(final, trend)
	if trend.Direction == TrendEscalating && final.IsUrgent && !baseUrgency(final) {
		outcome.Warnings = append(outcome.Warnings, "urgency raised by escalating session trend")
	}

	outcome.Assessment = final
	return outcome
}

func (a *EmotionAnalyzer) textJudgment(ctx context.Context, message string, timestamp float64, history []SessionEntry) (EmotionAssessment, error) {
	judged, err := a.judgments.TextEmotionJudgment(ctx, TextJudgmentRequest{
		Message:        message,
		HistorySummary: SummarizeHistory(history, 5),
	})
	if err != nil {
		return EmotionAssessment{}, err
	}
	if err := validateAssessment(judged); err != nil {
		return EmotionAssessment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	judged.SourceModality = ModalityText
	judged.Timestamp = timestamp
	return judged, nil
}

func validateAssessment(a EmotionAssessment) error {
	if !a.PrimaryEmotion.Valid() {
		return fmt.Errorf("unknown primary emotion %q", a.PrimaryEmotion)
	}
	if a.SecondaryEmotion != "" && !a.SecondaryEmotion.Valid() {
		return fmt.Errorf("unknown secondary emotion %q", a.SecondaryEmotion)
	}
	if !a.Intensity.Valid() {
		return fmt.Errorf("unknown intensity %q", a.Intensity)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence %v out of [0,1]", a.Confidence)
	}
	return nil
}

// reconcile merges a text and an audio assessment into the final one. Both
// judgments succeeded, so the result is combined-modality either way; when
// the modalities disagree the higher-confidence one supplies the primary
// emotion and intensity, and the disagreement stays recorded on the
// validation rather than being discarded.
func reconcile(text, audio EmotionAssessment, v CrossModalValidation) EmotionAssessment {
	final := text
	if !v.IsConsistent {
		winner := preferHigherConfidence(text, audio)
		final.PrimaryEmotion = winner.PrimaryEmotion
		final.SecondaryEmotion = winner.SecondaryEmotion
		final.Intensity = winner.Intensity
		final.Reasoning = winner.Reasoning
	} else if audio.Intensity.Rank() > final.Intensity.Rank() {
		// Consistent modalities: keep the stronger intensity signal.
		final.Intensity = audio.Intensity
	}
	final.SourceModality = ModalityCombined
	final.Confidence = combinedConfidence(text.Confidence, audio.Confidence, v.AgreementScore)
	return final
}

func combinedConfidence(textConf, audioConf, agreement float64) float64 {
	c := (textConf+audioConf)/2 + 0.1*(agreement-0.5)
	if c > 1 {
		return 1
	}
	if c < 0 {
		return 0
	}
	return c
}

var distressFamily = map[Emotion]bool{
	EmotionFear:     true,
	EmotionPanic:    true,
	EmotionDistress: true,
}

func baseUrgency(a EmotionAssessment) bool {
	if a.Intensity == IntensityExtreme {
		return true
	}
	return a.Intensity == IntensityHigh && distressFamily[a.PrimaryEmotion]
}

// urgency applies the trend rule: an escalating trajectory is itself
// evidence of urgency even when the single-message signal is not.
func urgency(a EmotionAssessment, trend TemporalTrend) bool {
	if baseUrgency(a) {
		return true
	}
	return trend.Direction == TrendEscalating
}
