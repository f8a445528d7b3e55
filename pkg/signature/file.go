package signature

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/chewxy/sexp"
)

// Overrides holds the thresholds read from a signature file. Nil fields keep
// the value already present in the analysis.Config.
//
// File format:
//
//	(signatures
//	  (device covox (band 20000 24000))
//	  (device dss (band 6000 8000))
//	  (device opl2 (min-mean-delta 50) (min-max-delta 500)
//	               (max-register 0xF5) (min-fraction 0.5)))
//
// Lines starting with ';' are comments.
type Overrides struct {
	CovoxBand *analysis.Band
	DSSBand   *analysis.Band

	OPL2MinMeanDelta *float64
	OPL2MinMaxDelta  *int64
	OPL2MaxRegister  *uint8
	OPL2MinFraction  *float64
}

// LoadFile parses the signature file at path.
func LoadFile(path string) (*Overrides, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open signature file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a signature file from r.
func Parse(r io.Reader) (*Overrides, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature file: %w", err)
	}

	exprs, err := sexp.ParseString(stripComments(string(data)))
	if err != nil {
		return nil, fmt.Errorf("signature: parse error: %w", err)
	}

	ov := &Overrides{}
	found := false
	for _, expr := range exprs {
		items := listItems(expr)
		if len(items) == 0 {
			continue
		}
		if name, _ := atom(items[0]); name != "signatures" {
			return nil, fmt.Errorf("signature: unexpected top-level form %q", name)
		}
		found = true

		for _, dev := range items[1:] {
			if err := ov.parseDevice(dev); err != nil {
				return nil, err
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("signature: no (signatures ...) form found")
	}
	return ov, nil
}

// Apply copies every set override into cfg.
func (o *Overrides) Apply(cfg *analysis.Config) {
	if o.CovoxBand != nil {
		cfg.CovoxBand = *o.CovoxBand
	}
	if o.DSSBand != nil {
		cfg.DSSBand = *o.DSSBand
	}
	if o.OPL2MinMeanDelta != nil {
		cfg.OPL2MinMeanDelta = *o.OPL2MinMeanDelta
	}
	if o.OPL2MinMaxDelta != nil {
		cfg.OPL2MinMaxDelta = *o.OPL2MinMaxDelta
	}
	if o.OPL2MaxRegister != nil {
		cfg.OPL2MaxRegister = *o.OPL2MaxRegister
	}
	if o.OPL2MinFraction != nil {
		cfg.OPL2MinFraction = *o.OPL2MinFraction
	}
}

// parseDevice handles one (device <key> (param value...)...) form.
func (o *Overrides) parseDevice(expr sexp.Sexp) error {
	items := listItems(expr)
	if len(items) < 2 {
		return fmt.Errorf("signature: malformed device form %s", expr)
	}
	if head, _ := atom(items[0]); head != "device" {
		return fmt.Errorf("signature: expected device form, got %q", head)
	}

	key, ok := atom(items[1])
	if !ok {
		return fmt.Errorf("signature: device key must be a symbol")
	}
	sig, ok := ByKey(key)
	if !ok {
		return fmt.Errorf("signature: unknown device %q", key)
	}

	for _, param := range items[2:] {
		args := listItems(param)
		if len(args) < 2 {
			return fmt.Errorf("signature: %s: malformed parameter %s", key, param)
		}
		name, _ := atom(args[0])

		var err error
		switch {
		case name == "band" && sig.Streaming:
			err = o.setBand(sig.Device, args[1:])
		case name == "min-mean-delta" && sig.Device == analysis.DeviceOPL2LPT:
			o.OPL2MinMeanDelta, err = parseFloat(args[1])
		case name == "min-max-delta" && sig.Device == analysis.DeviceOPL2LPT:
			var v uint64
			v, err = parseUint(args[1], 63)
			n := int64(v)
			o.OPL2MinMaxDelta = &n
		case name == "max-register" && sig.Device == analysis.DeviceOPL2LPT:
			var v uint64
			v, err = parseUint(args[1], 8)
			reg := uint8(v)
			o.OPL2MaxRegister = &reg
		case name == "min-fraction" && sig.Device == analysis.DeviceOPL2LPT:
			o.OPL2MinFraction, err = parseFloat(args[1])
		default:
			return fmt.Errorf("signature: %s: unknown parameter %q", key, name)
		}
		if err != nil {
			return fmt.Errorf("signature: %s %s: %w", key, name, err)
		}
	}

	return nil
}

func (o *Overrides) setBand(device analysis.DeviceClass, args []sexp.Sexp) error {
	if len(args) != 2 {
		return fmt.Errorf("band needs low and high rate")
	}
	low, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	high, err := parseFloat(args[1])
	if err != nil {
		return err
	}
	if *low >= *high {
		return fmt.Errorf("empty band %.0f..%.0f", *low, *high)
	}

	band := &analysis.Band{Low: *low, High: *high}
	if device == analysis.DeviceCovox {
		o.CovoxBand = band
	} else {
		o.DSSBand = band
	}
	return nil
}

// listItems flattens a list node into its elements. Atoms and empty lists
// yield nil.
func listItems(s sexp.Sexp) []sexp.Sexp {
	var items []sexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		items = append(items, s.Head())
		s = s.Tail()
	}
	return items
}

// atom returns the text of a leaf node. Sexp only implements fmt.Formatter,
// so the text goes through fmt.
func atom(s sexp.Sexp) (string, bool) {
	if s == nil || !s.IsLeaf() {
		return "", false
	}
	return strings.Trim(fmt.Sprint(s), `"`), true
}

func parseFloat(s sexp.Sexp) (*float64, error) {
	text, ok := atom(s)
	if !ok {
		return nil, fmt.Errorf("expected number, got %s", s)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return &v, nil
}

func parseUint(s sexp.Sexp, bits int) (uint64, error) {
	text, ok := atom(s)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %s", s)
	}
	v, err := strconv.ParseUint(text, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", text)
	}
	return v, nil
}

func stripComments(input string) string {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, ";"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
