package analysis

import "errors"

// Sentinel errors for the analysis pipeline. Capability-level failures
// (validation, unsupported audio, timeouts) are absorbed into degraded
// results; only input-contract violations propagate to the caller.
var (
	// ErrEmptyMessage is returned when a run is requested with no message text.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrValidation marks a judgment that came back malformed or outside the
	// defined enums/ranges. It is recovered locally via the lexicon fallback.
	ErrValidation = errors.New("judgment failed validation")

	// ErrUnsupportedModality marks audio input whose format or content the
	// adapter cannot process. The run degrades to text-only.
	ErrUnsupportedModality = errors.New("unsupported audio modality")

	// ErrExtraction marks a failed or out-of-range audio feature extraction.
	// Treated like ErrUnsupportedModality by the emotion analyzer.
	ErrExtraction = errors.New("audio feature extraction failed")

	// ErrInvalidTransition marks a workflow run that attempted to move
	// backwards or skip a stage. It indicates a programming error, not bad
	// input.
	ErrInvalidTransition = errors.New("invalid workflow stage transition")
)
