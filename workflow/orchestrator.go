// Package workflow sequences the per-message analysis pipeline: emotion
// stage, situation stage, aggregation, persistence.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/firstline-systems/calltriage/analysis"
	"github.com/firstline-systems/calltriage/metrics"
	"github.com/firstline-systems/calltriage/store"
)

// stage is the run state machine. Transitions only move forward; a stage
// that cannot produce a full result still produces a degraded one rather
// than aborting the run.
type stage int

const (
	stageStart stage = iota
	stageEmotion
	stageSituation
	stageAggregate
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageStart:
		return "start"
	case stageEmotion:
		return "emotion"
	case stageSituation:
		return "situation"
	case stageAggregate:
		return "aggregate"
	case stageDone:
		return "done"
	default:
		return "unknown"
	}
}

// runState tracks a single run's position in the pipeline.
type runState struct {
	current stage
}

func (r *runState) advance(next stage) error {
	if next != r.current+1 {
		return fmt.Errorf("%w: %s -> %s", analysis.ErrInvalidTransition, r.current, next)
	}
	r.current = next
	return nil
}

// Config carries the orchestrator's tunables. Zero values fall back to the
// documented defaults.
type Config struct {
	// AgreementThreshold is the cross-modal consistency cutoff.
	AgreementThreshold float64
	// TrendWindow is how many trailing entries trend classification sees
	// (0 = whole history).
	TrendWindow int
	// CapabilityTimeout bounds each external capability call.
	CapabilityTimeout time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		AgreementThreshold: analysis.DefaultAgreementThreshold,
		TrendWindow:        analysis.DefaultTrendWindow,
		CapabilityTimeout:  30 * time.Second,
	}
}

// Request is one incoming contact to analyze.
type Request struct {
	SessionID string
	Message   string
	// AudioRef optionally points at an audio clip paired with the message.
	AudioRef string
	// Timestamp is seconds relative to session start. Nil means "now",
	// measured against the session's creation time.
	Timestamp *float64
}

// Orchestrator drives one sequential pipeline run per incoming message.
// Independent sessions may run concurrently; the store serializes writers
// per session id.
type Orchestrator struct {
	cfg       Config
	sessions  store.Store
	emotion   *analysis.EmotionAnalyzer
	situation *analysis.SituationAnalyzer
	logger    *logrus.Entry
	now       func() time.Time
}

// New wires an orchestrator. judgments is the external language capability;
// audio may be nil for text-only deployments; lexicon nil uses the built-in
// table.
func New(cfg Config, sessions store.Store, judgments analysis.JudgmentProvider, audio analysis.AudioCapability, lexicon analysis.Lexicon, logger *logrus.Logger) *Orchestrator {
	if logger == nil {
		logger = logrus.New()
	}
	def := DefaultConfig()
	if cfg.AgreementThreshold <= 0 {
		cfg.AgreementThreshold = def.AgreementThreshold
	}
	if cfg.TrendWindow < 0 {
		cfg.TrendWindow = def.TrendWindow
	}
	if cfg.CapabilityTimeout <= 0 {
		cfg.CapabilityTimeout = def.CapabilityTimeout
	}
	return &Orchestrator{
		cfg:       cfg,
		sessions:  sessions,
		emotion:   analysis.NewEmotionAnalyzer(judgments, audio, lexicon, cfg.AgreementThreshold, cfg.TrendWindow, logger),
		situation: analysis.NewSituationAnalyzer(judgments, logger),
		logger:    logger.WithField("component", "orchestrator"),
		now:       time.Now,
	}
}

// RunWorkflow analyzes one message and appends the outcome to the session's
// history. The session is created on first contact. When the final append
// fails, the in-memory result is still returned alongside an error wrapping
// store.ErrPersistence: the caller has the analysis but must retry the run
// before the stored history is authoritative again.
func (o *Orchestrator) RunWorkflow(ctx context.Context, req Request) (*analysis.AnalysisResult, error) {
	start := o.now()
	if req.Message == "" {
		return nil, analysis.ErrEmptyMessage
	}
	if req.SessionID == "" {
		return nil, errors.New("workflow: session id is empty")
	}

	record, created, err := o.loadOrCreate(ctx, req.SessionID)
	if err != nil {
		metrics.ObserveRun("error", start)
		return nil, err
	}
	if created {
		metrics.MarkSessionCreated()
	}

	timestamp := o.resolveTimestamp(req, record)

	log := o.logger.WithFields(logrus.Fields{
		"session_id": req.SessionID,
		"timestamp":  timestamp,
		"has_audio":  req.AudioRef != "",
	})
	log.Info("workflow run started")

	state := &runState{current: stageStart}

	// EmotionStage
	if err := state.advance(stageEmotion); err != nil {
		return nil, err
	}
	emotionCtx, cancelEmotion := context.WithTimeout(ctx, o.cfg.CapabilityTimeout)
	emotionOut := o.emotion.Analyze(emotionCtx, req.Message, req.AudioRef, timestamp, record.Entries)
	cancelEmotion()
	if emotionOut.Assessment.Degraded {
		metrics.MarkDegraded("emotion")
		metrics.MarkCapabilityFailure("text")
	}

	// SituationStage
	if err := state.advance(stageSituation); err != nil {
		return nil, err
	}
	situationCtx, cancelSituation := context.WithTimeout(ctx, o.cfg.CapabilityTimeout)
	situationOut := o.situation.Analyze(situationCtx, req.Message, emotionOut.Assessment, record.Entries)
	cancelSituation()
	if situationOut.Assessment.Degraded {
		metrics.MarkDegraded("situation")
		metrics.MarkCapabilityFailure("situation")
	}

	// Aggregate
	if err := state.advance(stageAggregate); err != nil {
		return nil, err
	}
	// The reported trend covers the history as it stands after this run,
	// current entry included.
	intensities := append(analysis.IntensityHistory(record.Entries), emotionOut.Assessment.Intensity)
	trend := analysis.ClassifyTrend(intensities, o.cfg.TrendWindow)

	result := &analysis.AnalysisResult{
		SessionID:  req.SessionID,
		Emotion:    emotionOut.Assessment,
		Situation:  situationOut.Assessment,
		Trend:      trend,
		CrossModal: emotionOut.CrossModal,
		Warnings:   append(emotionOut.Warnings, situationOut.Warnings...),
	}

	// A cancelled run must leave the session history exactly as it was.
	if err := ctx.Err(); err != nil {
		metrics.ObserveRun("error", start)
		return nil, err
	}

	entry := analysis.SessionEntry{
		Emotion:   emotionOut.Assessment,
		Situation: situationOut.Assessment,
		Timestamp: timestamp,
	}
	if err := o.sessions.Append(ctx, req.SessionID, entry); err != nil {
		metrics.MarkPersistenceFailure()
		metrics.ObserveRun("error", start)
		log.WithError(err).Error("session append failed; history needs a retried run")
		return result, fmt.Errorf("workflow: %w: %v", store.ErrPersistence, err)
	}

	if err := state.advance(stageDone); err != nil {
		return nil, err
	}

	outcome := "ok"
	if result.Degraded() {
		outcome = "degraded"
	}
	metrics.ObserveRun(outcome, start)
	log.WithFields(logrus.Fields{
		"emotion":  result.Emotion.PrimaryEmotion,
		"severity": result.Situation.Severity,
		"trend":    result.Trend.Direction,
		"outcome":  outcome,
	}).Info("workflow run finished")
	return result, nil
}

// loadOrCreate fetches the session record, creating the session on first
// contact. The loaded record is a read-only view for this run; the only
// write is the single append at the end.
func (o *Orchestrator) loadOrCreate(ctx context.Context, sessionID string) (*store.SessionRecord, bool, error) {
	record, err := o.sessions.Load(ctx, sessionID)
	if err == nil {
		return record, false, nil
	}
	if !errors.Is(err, store.ErrSessionNotFound) {
		return nil, false, err
	}

	if err := o.sessions.Create(ctx, sessionID); err != nil {
		// Another run for the same new session may have won the race.
		if !errors.Is(err, store.ErrSessionExists) {
			return nil, false, err
		}
	}
	record, err = o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// resolveTimestamp defaults to the current session-relative offset and
// clamps forward past the last entry so the record stays strictly
// monotonic.
func (o *Orchestrator) resolveTimestamp(req Request, record *store.SessionRecord) float64 {
	var ts float64
	if req.Timestamp != nil {
		ts = *req.Timestamp
	} else {
		ts = o.now().Sub(record.CreatedAt).Seconds()
	}
	if last := record.LastTimestamp(); ts <= last {
		ts = last + 0.001
	}
	if ts < 0 {
		ts = 0
	}
	return ts
}
