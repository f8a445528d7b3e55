package analysis

import (
	"math"
	"sort"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
)

// Deltas returns the intervals between consecutive samples. Arithmetic is
// signed so an out-of-order capture yields negative deltas instead of
// wrapping around.
func Deltas(samples []capture.Sample) []int64 {
	if len(samples) < 2 {
		return nil
	}
	deltas := make([]int64, len(samples)-1)
	for i := range deltas {
		deltas[i] = int64(samples[i+1].Timestamp) - int64(samples[i].Timestamp)
	}
	return deltas
}

// AnalyzeTiming computes interval statistics over the capture. The caller
// guarantees at least two samples; with fewer the zero TimingStats is
// returned.
func AnalyzeTiming(samples []capture.Sample) TimingStats {
	deltas := Deltas(samples)
	if len(deltas) == 0 {
		return TimingStats{}
	}

	stats := TimingStats{
		Count: len(deltas),
		Min:   deltas[0],
		Max:   deltas[0],
	}

	var sum float64
	for _, d := range deltas {
		sum += float64(d)
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}
	stats.Mean = sum / float64(len(deltas))
	stats.Median = median(deltas)
	stats.Stdev = sampleStdev(deltas, stats.Mean)

	if stats.Mean > 0 {
		stats.SampleRateHz = 1_000_000 / stats.Mean
	}

	return stats
}

// median returns the middle value, or the mean of the two middle values for
// an even count. The input is not modified.
func median(values []int64) float64 {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

// sampleStdev is the Bessel-corrected standard deviation; 0 for one value.
func sampleStdev(values []int64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
