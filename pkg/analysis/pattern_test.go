package analysis

import (
	"testing"
)

func TestCheckOPL2PatternBoundary(t *testing.T) {
	tests := []struct {
		name      string
		values    []uint8
		wantFrac  float64
		confirmed bool
	}{
		{name: "all in range", values: []uint8{0x00, 0x20, 0xF5, 0xA0}, wantFrac: 1, confirmed: true},
		{name: "exactly half", values: []uint8{0x20, 0xF6, 0x40, 0xFF}, wantFrac: 0.5, confirmed: false},
		{name: "just over half", values: []uint8{0x20, 0xF6, 0x40, 0xFF, 0x60}, wantFrac: 0.6, confirmed: true},
		{name: "none in range", values: []uint8{0xF6, 0xFE, 0xFF}, wantFrac: 0, confirmed: false},
		{name: "0xF5 is in range", values: []uint8{0xF5}, wantFrac: 1, confirmed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckOPL2Pattern(samplesOf(tt.values...), 0xF5, 0.5)
			if !almostEqual(res.Fraction, tt.wantFrac) {
				t.Errorf("fraction = %f, want %f", res.Fraction, tt.wantFrac)
			}
			if res.Confirmed != tt.confirmed {
				t.Errorf("confirmed = %v, want %v", res.Confirmed, tt.confirmed)
			}
			if res.Total != len(tt.values) {
				t.Errorf("total = %d, want %d", res.Total, len(tt.values))
			}
		})
	}
}

func TestCheckOPL2PatternEmpty(t *testing.T) {
	res := CheckOPL2Pattern(nil, 0xF5, 0.5)
	if res.Confirmed || res.Total != 0 {
		t.Errorf("empty capture must not confirm: %+v", res)
	}
}

func TestCheckOPL2Alternation(t *testing.T) {
	// address/data pairs: 0x20 ok, 0xB0 ok, 0x27 ok (inside 0x20..0x35), 0x10 not decoded
	values := []uint8{0x20, 0xFF, 0xB0, 0x31, 0x27, 0x00, 0x10, 0x42}
	res := CheckOPL2Alternation(samplesOf(values...), 0.5)

	if res.Total != 4 || res.Matched != 3 {
		t.Fatalf("expected 3/4 pairs, got %d/%d", res.Matched, res.Total)
	}
	if !res.Confirmed {
		t.Errorf("3/4 valid addresses should confirm")
	}

	// Shifted by one byte the data bytes land in the address slot
	shifted := CheckOPL2Alternation(samplesOf(append([]uint8{0xFF}, values...)...), 0.5)
	if shifted.Confirmed {
		t.Errorf("misaligned stream should not confirm: %+v", shifted)
	}
}

func TestIsOPL2Register(t *testing.T) {
	valid := []uint8{0x01, 0x04, 0x08, 0x20, 0x35, 0xA8, 0xBD, 0xC8, 0xE0, 0xF5}
	invalid := []uint8{0x00, 0x05, 0x09, 0x36, 0xA9, 0xBC, 0xBE, 0xF6, 0xFF}

	for _, v := range valid {
		if !IsOPL2Register(v) {
			t.Errorf("0x%02X should be a register", v)
		}
	}
	for _, v := range invalid {
		if IsOPL2Register(v) {
			t.Errorf("0x%02X should not be a register", v)
		}
	}
}
