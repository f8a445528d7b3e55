package analysis

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
)

// MinSamples is the smallest capture that yields timing statistics.
const MinSamples = 2

// ErrInsufficientSamples is returned when a capture has fewer than
// MinSamples samples.
var ErrInsufficientSamples = errors.New("analysis: insufficient samples")

// Analyze runs the full analysis over c. On error no partial result is
// returned. cfg is not modified; clamping happens on a copy.
func Analyze(c *capture.Capture, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	local := *cfg
	cfg = &local
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Len() < MinSamples {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrInsufficientSamples, c.Len(), MinSamples)
	}

	timing := AnalyzeTiming(c.Samples)
	data := AnalyzeData(c.Samples, cfg.TopValues)
	verdict := Classify(timing, c.Samples, cfg)

	first, last := c.Span()
	recs, duration := Recommend(timing, data, first, last, cfg)
	recs = append(recs, readerAdvisories(c.Meta)...)

	return &Result{
		Samples:         c.Len(),
		Timing:          timing,
		Data:            data,
		Verdict:         verdict,
		Recommendations: recs,
		DurationSeconds: duration,
		Capture:         c.Meta,
	}, nil
}

// Has reports whether an advisory of the given kind was emitted.
func (r *Result) Has(kind RecommendationKind) bool {
	for _, rec := range r.Recommendations {
		if rec.Kind == kind {
			return true
		}
	}
	return false
}
