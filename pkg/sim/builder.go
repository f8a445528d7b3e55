// Package sim generates synthetic parallel-port captures that look like the
// traffic of the devices lptsniff recognises. The captures are used by tests
// and by the simulate command to exercise the analyzer without hardware.
package sim

import (
	"math/rand"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
)

// Builder assembles a capture one strobe at a time.
type Builder struct {
	rng     *rand.Rand
	jitter  int
	now     uint64
	samples []capture.Sample
}

// NewBuilder creates a builder. jitterUS adds a uniform ±jitterUS error to
// every delta; deltas never drop below 1 µs.
func NewBuilder(seed int64, jitterUS int) *Builder {
	if jitterUS < 0 {
		jitterUS = 0
	}
	return &Builder{
		rng:    rand.New(rand.NewSource(seed)),
		jitter: jitterUS,
	}
}

// Emit latches data deltaUS after the previous strobe. The first strobe is
// always at t=0.
func (b *Builder) Emit(deltaUS uint64, data uint8) {
	if len(b.samples) > 0 {
		b.now += b.jittered(deltaUS)
	}
	b.samples = append(b.samples, capture.Sample{Timestamp: b.now, Data: data})
}

// Stream emits n strobes at a fixed period, taking each byte from wave.
func (b *Builder) Stream(n int, periodUS uint64, wave func(i int) uint8) {
	for i := 0; i < n; i++ {
		b.Emit(periodUS, wave(i))
	}
}

// RegisterWrite emits an address/data pair the way an OPL2LPT driver does:
// the address strobe afterUS after the previous one, then the data strobe
// setupUS later.
func (b *Builder) RegisterWrite(afterUS uint64, reg, value uint8, setupUS uint64) {
	b.Emit(afterUS, reg)
	b.Emit(setupUS, value)
}

// Len returns the number of strobes emitted so far.
func (b *Builder) Len() int {
	return len(b.samples)
}

// Build returns the capture. At most limit samples are kept when limit > 0.
func (b *Builder) Build(limit int) *capture.Capture {
	samples := b.samples
	if limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}
	out := make([]capture.Sample, len(samples))
	copy(out, samples)
	return capture.New(out)
}

func (b *Builder) jittered(deltaUS uint64) uint64 {
	if b.jitter == 0 {
		return deltaUS
	}
	d := int64(deltaUS) + int64(b.rng.Intn(2*b.jitter+1)-b.jitter)
	if d < 1 {
		d = 1
	}
	return uint64(d)
}
