package analysis

// Emotion is the primary emotional state detected in a caller's message or voice.
type Emotion string

const (
	EmotionFear      Emotion = "fear"
	EmotionAnger     Emotion = "anger"
	EmotionSadness   Emotion = "sadness"
	EmotionDistress  Emotion = "distress"
	EmotionPanic     Emotion = "panic"
	EmotionConfusion Emotion = "confusion"
	EmotionNeutral   Emotion = "neutral"
)

// Valid reports whether e is one of the known emotion labels.
func (e Emotion) Valid() bool {
	switch e {
	case EmotionFear, EmotionAnger, EmotionSadness, EmotionDistress,
		EmotionPanic, EmotionConfusion, EmotionNeutral:
		return true
	}
	return false
}

// Intensity is the ordered strength of a detected emotion.
type Intensity string

const (
	IntensityLow     Intensity = "low"
	IntensityMedium  Intensity = "medium"
	IntensityHigh    Intensity = "high"
	IntensityExtreme Intensity = "extreme"
)

var intensityRanks = map[Intensity]int{
	IntensityLow:     0,
	IntensityMedium:  1,
	IntensityHigh:    2,
	IntensityExtreme: 3,
}

// Rank returns the position of i in the low..extreme order, or -1 for an
// unknown value.
func (i Intensity) Rank() int {
	if r, ok := intensityRanks[i]; ok {
		return r
	}
	return -1
}

// Valid reports whether i is one of the known intensity levels.
func (i Intensity) Valid() bool { return i.Rank() >= 0 }

// Modality records where an emotion assessment came from.
type Modality string

const (
	ModalityText     Modality = "text"
	ModalityAudio    Modality = "audio"
	ModalityCombined Modality = "combined"
)

// Category classifies the kind of emergency described in a message.
type Category string

const (
	CategoryMedical  Category = "medical"
	CategoryFire     Category = "fire"
	CategoryCrime    Category = "crime"
	CategoryTraffic  Category = "traffic"
	CategoryDisaster Category = "disaster"
	CategoryOther    Category = "other"
)

// Valid reports whether c is one of the known emergency categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMedical, CategoryFire, CategoryCrime, CategoryTraffic,
		CategoryDisaster, CategoryOther:
		return true
	}
	return false
}

// Severity is the ordered seriousness of an emergency situation.
type Severity string

const (
	SeverityLow             Severity = "low"
	SeverityMedium          Severity = "medium"
	SeverityHigh            Severity = "high"
	SeverityCritical        Severity = "critical"
	SeverityLifeThreatening Severity = "life_threatening"
)

var severityRanks = map[Severity]int{
	SeverityLow:             0,
	SeverityMedium:          1,
	SeverityHigh:            2,
	SeverityCritical:        3,
	SeverityLifeThreatening: 4,
}

// Rank returns the position of s in the low..life_threatening order, or -1
// for an unknown value.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool { return s.Rank() >= 0 }

// TrendDirection classifies how emotional intensity has moved across a
// session's history.
type TrendDirection string

const (
	TrendEscalating       TrendDirection = "escalating"
	TrendDeEscalating     TrendDirection = "de_escalating"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// AudioFeatures are the normalized signal descriptors produced by the audio
// feature-extraction capability. Absence of usable audio yields no
// AudioFeatures value at all, never a zero-filled one.
type AudioFeatures struct {
	// Pitch is the mean fundamental frequency in Hz, [0, 600].
	Pitch float64 `json:"pitch"`
	// Volume is the mean RMS energy normalized to [0, 1].
	Volume float64 `json:"volume"`
	// SpeechRate is a syllables-per-second proxy, [0, 12].
	SpeechRate float64 `json:"speech_rate"`
	// ProsodyScore is normalized pitch variability, [0, 1].
	ProsodyScore float64 `json:"prosody_score"`
}

// EmotionAssessment is one emotion judgment for a single message or clip.
// Assessments are value types and never mutated after construction.
type EmotionAssessment struct {
	PrimaryEmotion   Emotion   `json:"primary_emotion"`
	SecondaryEmotion Emotion   `json:"secondary_emotion,omitempty"`
	Intensity        Intensity `json:"intensity"`
	Confidence       float64   `json:"confidence"`
	IsUrgent         bool      `json:"is_urgent"`
	SourceModality   Modality  `json:"source_modality"`
	// Timestamp is seconds relative to the start of the session.
	Timestamp float64 `json:"timestamp"`
	Reasoning string  `json:"reasoning,omitempty"`
	// Degraded marks an assessment produced by a local fallback after a
	// capability failure.
	Degraded bool `json:"degraded,omitempty"`
}

// EmergencyAssessment is the structured situation judgment for one message.
type EmergencyAssessment struct {
	Category           Category `json:"category"`
	Severity           Severity `json:"severity"`
	KeyDetails         []string `json:"key_details"`
	RecommendedActions []string `json:"recommended_actions"`
	RequiredResources  []string `json:"required_resources"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning,omitempty"`
	Degraded           bool     `json:"degraded,omitempty"`
}

// CrossModalValidation reconciles a text-derived and an audio-derived
// emotion assessment taken from the same moment.
type CrossModalValidation struct {
	Text           EmotionAssessment `json:"text_assessment"`
	Audio          EmotionAssessment `json:"audio_assessment"`
	AgreementScore float64           `json:"agreement_score"`
	IsConsistent   bool              `json:"is_consistent"`
}

// TemporalTrend is the derived, non-persisted view of a session's emotional
// trajectory.
type TemporalTrend struct {
	Direction TrendDirection `json:"direction"`
	// Window is the number of history entries the classification looked at.
	Window int `json:"window"`
}

// SessionEntry is the pair of assessments appended during one workflow run.
type SessionEntry struct {
	Emotion   EmotionAssessment   `json:"emotion"`
	Situation EmergencyAssessment `json:"situation"`
	Timestamp float64             `json:"timestamp"`
}

// AnalysisResult is the aggregate outcome of one workflow run.
type AnalysisResult struct {
	SessionID  string                `json:"session_id"`
	Emotion    EmotionAssessment     `json:"emotion"`
	Situation  EmergencyAssessment   `json:"situation"`
	Trend      TemporalTrend         `json:"trend"`
	CrossModal *CrossModalValidation `json:"cross_modal,omitempty"`
	// Warnings records non-fatal capability issues hit during the run
	// (degraded judgments, unusable audio, and so on), in occurrence order.
	Warnings []string `json:"warnings,omitempty"`
}

// Degraded reports whether any stage of the run fell back to a local
// estimate.
func (r *AnalysisResult) Degraded() bool {
	return r.Emotion.Degraded || r.Situation.Degraded
}
