package analysis

import "github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"

// CheckOPL2Pattern tests whether the capture looks like OPL2 register
// traffic. OPL2 writes come in pairs (address 0x00..maxRegister, then data),
// so a register-addressed stream has most bytes at or below maxRegister.
//
// This is approximate: it counts bytes in range and does not check that
// addresses and data alternate. Confirmed is true when the in-range fraction
// is strictly greater than minFraction.
func CheckOPL2Pattern(samples []capture.Sample, maxRegister uint8, minFraction float64) PatternResult {
	res := PatternResult{Total: len(samples)}
	if len(samples) == 0 {
		return res
	}

	for _, s := range samples {
		if s.Data <= maxRegister {
			res.Matched++
		}
	}
	res.Fraction = float64(res.Matched) / float64(res.Total)
	res.Confirmed = res.Fraction > minFraction
	return res
}

// CheckOPL2Alternation is the stricter variant: even-index samples are taken
// as register addresses and must hit a register the OPL2 actually decodes.
// Total counts address/data pairs; a trailing unpaired byte is ignored.
func CheckOPL2Alternation(samples []capture.Sample, minFraction float64) PatternResult {
	res := PatternResult{Total: len(samples) / 2}
	if res.Total == 0 {
		return res
	}

	for i := 0; i+1 < len(samples); i += 2 {
		if IsOPL2Register(samples[i].Data) {
			res.Matched++
		}
	}
	res.Fraction = float64(res.Matched) / float64(res.Total)
	res.Confirmed = res.Fraction > minFraction
	return res
}

// opl2Registers lists the address ranges decoded by the YM3812.
var opl2Registers = [][2]uint8{
	{0x01, 0x01}, // test / waveform select enable
	{0x02, 0x04}, // timers
	{0x08, 0x08}, // CSM / keyboard split
	{0x20, 0x35}, // tremolo, vibrato, sustain, KSR, multiplier
	{0x40, 0x55}, // key scale level, output level
	{0x60, 0x75}, // attack, decay
	{0x80, 0x95}, // sustain, release
	{0xA0, 0xA8}, // f-number low
	{0xB0, 0xB8}, // key on, block, f-number high
	{0xBD, 0xBD}, // rhythm
	{0xC0, 0xC8}, // feedback, connection
	{0xE0, 0xF5}, // waveform select
}

// IsOPL2Register reports whether addr is a decoded OPL2 register address.
func IsOPL2Register(addr uint8) bool {
	for _, r := range opl2Registers {
		if addr >= r[0] && addr <= r[1] {
			return true
		}
	}
	return false
}
