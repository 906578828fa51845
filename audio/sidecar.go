package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/firstline-systems/calltriage/analysis"
)

// SidecarSuffix is appended to a clip reference to find its precomputed
// feature file, e.g. call-7.wav -> call-7.wav.features.json.
const SidecarSuffix = ".features.json"

// SidecarExtractor reads features produced by an offline signal-processing
// pass from a JSON sidecar next to the clip. It keeps the pipeline fully
// deterministic without an in-process DSP dependency.
type SidecarExtractor struct{}

var _ Extractor = SidecarExtractor{}

func (SidecarExtractor) ExtractFeatures(ctx context.Context, ref string) (analysis.AudioFeatures, error) {
	if err := ctx.Err(); err != nil {
		return analysis.AudioFeatures{}, err
	}

	b, err := os.ReadFile(ref + SidecarSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return analysis.AudioFeatures{},
				fmt.Errorf("%w: no feature sidecar for %s", analysis.ErrUnsupportedModality, ref)
		}
		return analysis.AudioFeatures{}, fmt.Errorf("read sidecar: %w", err)
	}

	var f analysis.AudioFeatures
	if err := json.Unmarshal(b, &f); err != nil {
		return analysis.AudioFeatures{}, fmt.Errorf("%w: decode sidecar: %v", analysis.ErrExtraction, err)
	}
	return f, nil
}
