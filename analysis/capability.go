package analysis

import (
	"context"
	"fmt"
	"strings"
)

// TextJudgmentRequest carries one message to the language capability for an
// emotion judgment. HistorySummary is a short rendering of the session's
// recent assessments so the model can weigh trajectory, and may be empty.
type TextJudgmentRequest struct {
	Message        string
	HistorySummary string
}

// SituationJudgmentRequest carries one message plus the emotion assessment
// just produced for it to the language capability for a situation judgment.
type SituationJudgmentRequest struct {
	Message        string
	Emotion        EmotionAssessment
	HistorySummary string
}

// JudgmentProvider is the external language-judgment capability. A response
// outside the defined enums and ranges is treated by callers as a capability
// failure, the same as an error or timeout. Implementations must honor
// context cancellation.
type JudgmentProvider interface {
	TextEmotionJudgment(ctx context.Context, req TextJudgmentRequest) (EmotionAssessment, error)
	SituationJudgment(ctx context.Context, req SituationJudgmentRequest) (EmergencyAssessment, error)
}

// AudioCapability is the external audio analysis collaborator: feature
// extraction plus an audio-sourced emotion judgment for one clip. A failure
// wrapping ErrUnsupportedModality or ErrExtraction degrades the run to
// text-only rather than failing it.
type AudioCapability interface {
	Analyze(ctx context.Context, ref string, timestamp float64) (AudioFeatures, EmotionAssessment, error)
}

// SummarizeHistory renders the most recent entries of a session's history as
// a compact plain-text block for judgment prompts. At most max entries are
// included, oldest first; an empty history yields "".
func SummarizeHistory(entries []SessionEntry, max int) string {
	if len(entries) == 0 || max <= 0 {
		return ""
	}
	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "t=%.1fs emotion=%s intensity=%s severity=%s category=%s\n",
			e.Timestamp, e.Emotion.PrimaryEmotion, e.Emotion.Intensity,
			e.Situation.Severity, e.Situation.Category)
	}
	return strings.TrimSpace(b.String())
}
