// Package detect estimates how likely a text was machine-generated.
// Scores are heuristic by design; the pipeline treats them as an opaque
// 0-100 signal and defaults to 0 when detection fails.
package detect

import (
	"context"
	"fmt"

	"github.com/plagzap/plagzap/internal/model"
)

// Detection is the outcome of one AI-likelihood check.
type Detection struct {
	Score    int    `json:"score"` // 0-100 likelihood of AI authorship
	Reason   string `json:"reason"`
	Language string `json:"language"`
}

// Detector analyzes a text for AI authorship.
type Detector interface {
	// Name returns the provider name.
	Name() string

	// Detect scores the text. Errors are expected (network, quota) and
	// callers degrade to a zero score rather than failing the analysis.
	Detect(ctx context.Context, text string) (Detection, error)
}

// New creates a detector from configuration. An empty provider selects
// the offline heuristic detector.
func New(cfg model.DetectorConfig) (Detector, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIDetector(cfg)
	case "heuristic", "":
		return NewHeuristicDetector(), nil
	default:
		return nil, fmt.Errorf("unknown detector provider: %s", cfg.Provider)
	}
}
