package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
	"gopkg.in/yaml.v3"
)

func analyzeUniform(t *testing.T, n int, period uint64, data func(int) uint8) *analysis.Result {
	t.Helper()
	samples := make([]capture.Sample, n)
	for i := range samples {
		samples[i] = capture.Sample{Timestamp: uint64(i) * period, Data: data(i)}
	}
	res, err := analysis.Analyze(capture.New(samples), analysis.DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return res
}

func opl2Result(t *testing.T, strict bool) *analysis.Result {
	t.Helper()
	var samples []capture.Sample
	var ts uint64
	for i := 0; i < 40; i++ {
		samples = append(samples, capture.Sample{Timestamp: ts, Data: 0xA0 + uint8(i%8)})
		ts += 20
		samples = append(samples, capture.Sample{Timestamp: ts, Data: uint8(i * 3)})
		ts += 600
	}
	cfg := analysis.DefaultConfig()
	cfg.StrictOPL2 = strict
	res, err := analysis.Analyze(capture.New(samples), cfg)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return res
}

func TestTextCovox(t *testing.T) {
	res := analyzeUniform(t, 1000, 45, func(i int) uint8 { return uint8(i) })

	var buf bytes.Buffer
	if err := Render(&buf, res, FormatText, "covox.csv"); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Capture: covox.csv",
		"Captured 1000 samples",
		"Timing Analysis",
		"Average period: 45.0 μs",
		"Sample rate:    22222 Hz (22.2 kHz)",
		"Unique values: 256",
		"✓ COVOX SPEECH THING detected",
		"Continuous streaming DAC",
		"✓ Capture duration: 0.04 seconds",
		"Consider longer capture for better analysis",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nOutput:\n%s", want, out)
		}
	}
	if strings.Contains(out, "High timing variance") {
		t.Errorf("uniform capture must not report variance")
	}
}

func TestTextLowDiversity(t *testing.T) {
	res := analyzeUniform(t, 100, 142, func(int) uint8 { return 0x80 })
	out := Text(NewDocument(res, ""))

	for _, want := range []string{
		"✓ DISNEY SOUND SOURCE detected",
		"⚠ Low data diversity (1 unique values < 16)",
		"Verify D0-D7 wiring",
		"  0x80: 100 times (100.0%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nOutput:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Capture: ") {
		t.Errorf("no source line expected when source is empty")
	}
}

func TestTextOPL2(t *testing.T) {
	out := Text(NewDocument(opl2Result(t, true), ""))

	for _, want := range []string{
		"? Possible OPL2LPT detected",
		"Irregular timing suggests register writes",
		"✓ OPL2 register write pattern detected",
		"✓ Address/data alternation: 40/40 pairs hit decoded registers",
		"⚠ High timing variance detected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nOutput:\n%s", want, out)
		}
	}
}

func TestTextReaderAdvisories(t *testing.T) {
	samples := []capture.Sample{{Timestamp: 0, Data: 1}, {Timestamp: 10, Data: 2}, {Timestamp: 20, Data: 3}}
	c := capture.New(samples)
	c.Meta.Dropped = 3
	c.Meta.RingDropped = 9

	res, err := analysis.Analyze(c, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	out := Text(NewDocument(res, ""))

	for _, want := range []string{
		"? UNKNOWN DEVICE",
		"⚠ Sniffer ring buffer overflowed (9 frames lost)",
		"ℹ Malformed rows skipped (3 rows)",
		"Skipped 0 comment line(s), 3 malformed row(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nOutput:\n%s", want, out)
		}
	}

	// Duration line precedes reader advisories
	if strings.Index(out, "Capture duration") > strings.Index(out, "ring buffer") {
		t.Errorf("reader advisories should follow the duration line")
	}
}

func TestExportJSONConformsToSchema(t *testing.T) {
	for name, res := range map[string]*analysis.Result{
		"covox": analyzeUniform(t, 200, 45, func(i int) uint8 { return uint8(i * 7) }),
		"opl2":  opl2Result(t, true),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := ExportJSON(NewDocument(res, name+".csv"))
			if err != nil {
				t.Fatalf("ExportJSON failed: %v", err)
			}

			var decoded map[string]interface{}
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			verdict := decoded["verdict"].(map[string]interface{})
			if verdict["device"] != string(res.Verdict.Device) {
				t.Errorf("device = %v, want %s", verdict["device"], res.Verdict.Device)
			}
			if decoded["source"] != name+".csv" {
				t.Errorf("source = %v", decoded["source"])
			}
		})
	}
}

func TestValidateJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "{"},
		{name: "missing fields", doc: `{"version": "1.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateJSON([]byte(tt.doc)); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}

	// A valid document with a bogus device class
	res := analyzeUniform(t, 10, 45, func(i int) uint8 { return uint8(i) })
	doc := NewDocument(res, "")
	doc.Verdict.Device = analysis.DeviceClass("SOUND_BLASTER")
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := ValidateJSON(data); err == nil {
		t.Errorf("unknown device class should fail validation")
	}
}

func TestExportYAML(t *testing.T) {
	res := analyzeUniform(t, 100, 142, func(i int) uint8 { return uint8(i) })

	var buf bytes.Buffer
	if err := Render(&buf, res, FormatYAML, "dss.csv"); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc.Verdict.Device != analysis.DeviceDSS {
		t.Errorf("device = %s, want %s", doc.Verdict.Device, analysis.DeviceDSS)
	}
	if doc.Verdict.Name != "Disney Sound Source" {
		t.Errorf("name = %q", doc.Verdict.Name)
	}
	if doc.Data.Frequency["0x00"] != 1 {
		t.Errorf("frequency table not exported: %v", doc.Data.Frequency)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "yml": FormatYAML}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("expected error for unsupported format")
	}
}
