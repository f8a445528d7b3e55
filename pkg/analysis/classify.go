package analysis

import "github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"

// Classify maps timing statistics to a device verdict. Checks run in order
// and the first match wins. The samples are only consulted on the OPL2
// branch.
func Classify(t TimingStats, samples []capture.Sample, cfg *Config) Verdict {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch {
	case cfg.CovoxBand.Contains(t.SampleRateHz):
		return Verdict{Device: DeviceCovox}

	case cfg.DSSBand.Contains(t.SampleRateHz):
		return Verdict{Device: DeviceDSS}

	case t.Mean > cfg.OPL2MinMeanDelta && t.Max > cfg.OPL2MinMaxDelta:
		return classifyOPL2(samples, cfg)
	}

	return Verdict{Device: DeviceUnknown}
}

func classifyOPL2(samples []capture.Sample, cfg *Config) Verdict {
	v := Verdict{Device: DeviceOPL2LPT}

	pattern := CheckOPL2Pattern(samples, cfg.OPL2MaxRegister, cfg.OPL2MinFraction)
	v.Pattern = &pattern
	if pattern.Confirmed {
		v.Findings = append(v.Findings, FindingRegisterPattern)
	}

	if cfg.StrictOPL2 {
		alt := CheckOPL2Alternation(samples, cfg.OPL2MinFraction)
		v.Alternation = &alt
		if alt.Confirmed {
			v.Findings = append(v.Findings, FindingRegisterAlternation)
		}
	}

	return v
}
