package sim

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
)

// ErrUnknownKind is returned by Generate for an unsupported scenario name.
var ErrUnknownKind = errors.New("sim: unknown scenario")

// Kind names a predefined scenario.
type Kind string

const (
	KindCovox Kind = "covox"
	KindDSS   Kind = "dss"
	KindOPL2  Kind = "opl2"
	KindNoise Kind = "noise"
)

// Kinds lists the predefined scenarios.
var Kinds = []Kind{KindCovox, KindDSS, KindOPL2, KindNoise}

// Nominal strobe periods in microseconds.
const (
	CovoxPeriodUS = 45  // ~22.2 kHz
	DSSPeriodUS   = 142 // ~7.04 kHz

	opl2SetupUS   = 10
	opl2SettleUS  = 30
	opl2MinGapUS  = 2000
	opl2MaxGapUS  = 15000
	opl2MinBurst  = 4
	opl2MaxBurst  = 12
	noiseMinUS    = 10
	noiseMaxUS    = 30
	toneHz        = 440.0
	toneAmplitude = 100.0
)

// Options controls scenario generation.
type Options struct {
	Samples  int   // Number of strobes to generate
	Seed     int64 // RNG seed; equal seeds give equal captures
	JitterUS int   // Uniform ±jitter applied to every delta
}

// DefaultOptions returns options producing a couple of seconds of traffic.
func DefaultOptions() Options {
	return Options{
		Samples: 50000,
		Seed:    1,
	}
}

// ParseKind maps a scenario name to a Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(name))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Expected returns the device class a scenario should be classified as.
func (k Kind) Expected() analysis.DeviceClass {
	switch k {
	case KindCovox:
		return analysis.DeviceCovox
	case KindDSS:
		return analysis.DeviceDSS
	case KindOPL2:
		return analysis.DeviceOPL2LPT
	}
	return analysis.DeviceUnknown
}

// Generate builds the named scenario.
func Generate(kind Kind, opts Options) (*capture.Capture, error) {
	if opts.Samples < analysis.MinSamples {
		return nil, fmt.Errorf("sim: need at least %d samples, got %d", analysis.MinSamples, opts.Samples)
	}

	switch kind {
	case KindCovox:
		return BuildCovoxScenario(opts), nil
	case KindDSS:
		return BuildDSSScenario(opts), nil
	case KindOPL2:
		return BuildOPL2Scenario(opts), nil
	case KindNoise:
		return BuildNoiseScenario(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// BuildCovoxScenario streams an 8-bit sine tone at the Covox rate.
func BuildCovoxScenario(opts Options) *capture.Capture {
	b := NewBuilder(opts.Seed, opts.JitterUS)
	b.Stream(opts.Samples, CovoxPeriodUS, sine(CovoxPeriodUS))
	return b.Build(opts.Samples)
}

// BuildDSSScenario streams an 8-bit sine tone at the Sound Source rate.
func BuildDSSScenario(opts Options) *capture.Capture {
	b := NewBuilder(opts.Seed, opts.JitterUS)
	b.Stream(opts.Samples, DSSPeriodUS, sine(DSSPeriodUS))
	return b.Build(opts.Samples)
}

// BuildOPL2Scenario emits bursts of register writes separated by the long
// idle gaps a tracker leaves between ticks.
func BuildOPL2Scenario(opts Options) *capture.Capture {
	b := NewBuilder(opts.Seed, opts.JitterUS)
	rng := b.rng

	for b.Len() < opts.Samples {
		gap := uint64(opl2MinGapUS + rng.Intn(opl2MaxGapUS-opl2MinGapUS+1))
		writes := opl2MinBurst + rng.Intn(opl2MaxBurst-opl2MinBurst+1)

		for i := 0; i < writes; i++ {
			after := uint64(opl2SettleUS)
			if i == 0 {
				after = gap
			}
			b.RegisterWrite(after, randomRegister(b), uint8(rng.Intn(256)), opl2SetupUS)
		}
	}

	return b.Build(opts.Samples)
}

// BuildNoiseScenario emits random bytes at a fast, irregular rate that
// matches none of the known devices.
func BuildNoiseScenario(opts Options) *capture.Capture {
	b := NewBuilder(opts.Seed, opts.JitterUS)
	rng := b.rng

	for i := 0; i < opts.Samples; i++ {
		delta := uint64(noiseMinUS + rng.Intn(noiseMaxUS-noiseMinUS+1))
		b.Emit(delta, uint8(rng.Intn(256)))
	}

	return b.Build(opts.Samples)
}

func sine(periodUS float64) func(int) uint8 {
	step := 2 * math.Pi * toneHz * periodUS / 1e6
	return func(i int) uint8 {
		return uint8(math.Round(128 + toneAmplitude*math.Sin(step*float64(i))))
	}
}

func randomRegister(b *Builder) uint8 {
	for {
		reg := uint8(b.rng.Intn(256))
		if analysis.IsOPL2Register(reg) {
			return reg
		}
	}
}
