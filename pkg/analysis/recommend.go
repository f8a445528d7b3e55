package analysis

import "github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"

// Recommend evaluates the capture-quality advisories. Every rule that applies
// is emitted, in evaluation order. The capture duration in seconds is always
// returned.
func Recommend(t TimingStats, d DataStats, first, last uint64, cfg *Config) ([]Recommendation, float64) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var recs []Recommendation

	if limit := cfg.VarianceRatio * t.Mean; t.Stdev > limit {
		recs = append(recs, Recommendation{
			Kind:  RecHighTimingVariance,
			Level: LevelWarning,
			Value: t.Stdev,
			Limit: limit,
		})
	}

	if d.Unique < cfg.MinUniqueValues {
		recs = append(recs, Recommendation{
			Kind:  RecLowDataDiversity,
			Level: LevelWarning,
			Value: float64(d.Unique),
			Limit: float64(cfg.MinUniqueValues),
		})
	}

	duration := (float64(last) - float64(first)) / 1_000_000
	if duration < cfg.MinDurationSeconds {
		recs = append(recs, Recommendation{
			Kind:  RecShortCapture,
			Level: LevelInfo,
			Value: duration,
			Limit: cfg.MinDurationSeconds,
		})
	}

	return recs, duration
}

// readerAdvisories reports problems the capture reader noticed.
func readerAdvisories(meta capture.Meta) []Recommendation {
	var recs []Recommendation

	if meta.RingDropped > 0 {
		recs = append(recs, Recommendation{
			Kind:  RecRingOverflow,
			Level: LevelWarning,
			Value: float64(meta.RingDropped),
		})
	}

	if meta.Dropped > 0 {
		recs = append(recs, Recommendation{
			Kind:  RecDroppedRows,
			Level: LevelInfo,
			Value: float64(meta.Dropped),
		})
	}

	return recs
}
