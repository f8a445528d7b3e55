package analysis

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
)

// AnalyzeData computes the value distribution of the data bytes and the
// top most common values.
//
// Ties in the top list keep first-seen order: among equal counts, the value
// that appears earliest in the capture ranks first.
func AnalyzeData(samples []capture.Sample, top int) DataStats {
	stats := DataStats{
		Total:     len(samples),
		Frequency: make(map[uint8]int),
	}
	if len(samples) == 0 {
		return stats
	}

	stats.Min = samples[0].Data
	stats.Max = samples[0].Data

	var order []uint8 // values in first-seen order
	var sum float64
	for _, s := range samples {
		v := s.Data
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sum += float64(v)

		if stats.Frequency[v] == 0 {
			order = append(order, v)
		}
		stats.Frequency[v]++
	}

	stats.Mean = sum / float64(len(samples))
	stats.Unique = len(order)
	stats.Top = topValues(order, stats.Frequency, len(samples), top)

	return stats
}

func topValues(order []uint8, freq map[uint8]int, total, n int) []ValueCount {
	ranked := make([]uint8, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return freq[ranked[i]] > freq[ranked[j]]
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]ValueCount, 0, n)
	for _, v := range ranked[:n] {
		top = append(top, ValueCount{
			Value:   v,
			Count:   freq[v],
			Percent: float64(freq[v]) / float64(total) * 100,
		})
	}
	return top
}
