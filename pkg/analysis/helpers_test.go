package analysis

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
)

// uniformSamples builds n samples spaced period µs apart with data(i).
func uniformSamples(n int, period uint64, data func(i int) uint8) []capture.Sample {
	samples := make([]capture.Sample, n)
	for i := range samples {
		samples[i] = capture.Sample{Timestamp: uint64(i) * period, Data: data(i)}
	}
	return samples
}

// samplesFromDeltas builds a capture starting at t=0 with the given deltas.
func samplesFromDeltas(deltas []uint64, data func(i int) uint8) []capture.Sample {
	samples := make([]capture.Sample, len(deltas)+1)
	var ts uint64
	for i := range samples {
		if i > 0 {
			ts += deltas[i-1]
		}
		samples[i] = capture.Sample{Timestamp: ts, Data: data(i)}
	}
	return samples
}

func byteRamp(i int) uint8 { return uint8(i) }

func constByte(int) uint8 { return 0x80 }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6*math.Max(1, math.Abs(b))
}
