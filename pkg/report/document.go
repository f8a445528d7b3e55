package report

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/signature"
)

// DocumentVersion is bumped whenever the machine-readable layout changes.
const DocumentVersion = "1.0"

// Document is the machine-readable form of an analysis result.
type Document struct {
	Version         string                 `json:"version" yaml:"version"`
	GeneratedBy     string                 `json:"generated_by" yaml:"generated_by"`
	Source          string                 `json:"source,omitempty" yaml:"source,omitempty"`
	Samples         int                    `json:"samples" yaml:"samples"`
	DurationSeconds float64                `json:"duration_seconds" yaml:"duration_seconds"`
	Timing          analysis.TimingStats   `json:"timing" yaml:"timing"`
	Data            DataSection            `json:"data" yaml:"data"`
	Verdict         VerdictSection         `json:"verdict" yaml:"verdict"`
	Recommendations []RecommendationRecord `json:"recommendations" yaml:"recommendations"`
	Capture         capture.Meta           `json:"capture" yaml:"capture"`
}

// DataSection mirrors analysis.DataStats with hex-keyed frequencies.
type DataSection struct {
	Total     int                   `json:"total" yaml:"total"`
	Min       uint8                 `json:"min" yaml:"min"`
	Max       uint8                 `json:"max" yaml:"max"`
	Mean      float64               `json:"mean" yaml:"mean"`
	Unique    int                   `json:"unique" yaml:"unique"`
	Top       []analysis.ValueCount `json:"top" yaml:"top"`
	Frequency map[string]int        `json:"frequency" yaml:"frequency"`
}

// VerdictSection is the verdict plus its signature description.
type VerdictSection struct {
	Device      analysis.DeviceClass    `json:"device" yaml:"device"`
	Name        string                  `json:"name" yaml:"name"`
	Description string                  `json:"description" yaml:"description"`
	Findings    []analysis.Finding      `json:"findings" yaml:"findings"`
	Pattern     *analysis.PatternResult `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Alternation *analysis.PatternResult `json:"alternation,omitempty" yaml:"alternation,omitempty"`
}

// RecommendationRecord is an advisory with its rendered text.
type RecommendationRecord struct {
	Kind    analysis.RecommendationKind `json:"kind" yaml:"kind"`
	Level   analysis.Level              `json:"level" yaml:"level"`
	Value   float64                     `json:"value" yaml:"value"`
	Limit   float64                     `json:"limit" yaml:"limit"`
	Message string                      `json:"message" yaml:"message"`
	Hints   []string                    `json:"hints" yaml:"hints"`
}

// NewDocument builds the document for r. source is the capture path and
// may be empty.
func NewDocument(r *analysis.Result, source string) *Document {
	sig := signature.Lookup(r.Verdict.Device)

	doc := &Document{
		Version:         DocumentVersion,
		GeneratedBy:     "lptsniff capture analysis",
		Source:          source,
		Samples:         r.Samples,
		DurationSeconds: r.DurationSeconds,
		Timing:          r.Timing,
		Data: DataSection{
			Total:     r.Data.Total,
			Min:       r.Data.Min,
			Max:       r.Data.Max,
			Mean:      r.Data.Mean,
			Unique:    r.Data.Unique,
			Top:       append([]analysis.ValueCount{}, r.Data.Top...),
			Frequency: make(map[string]int, len(r.Data.Frequency)),
		},
		Verdict: VerdictSection{
			Device:      r.Verdict.Device,
			Name:        sig.Name,
			Description: sig.Description,
			Findings:    append([]analysis.Finding{}, r.Verdict.Findings...),
			Pattern:     r.Verdict.Pattern,
			Alternation: r.Verdict.Alternation,
		},
		Recommendations: make([]RecommendationRecord, 0, len(r.Recommendations)),
		Capture:         r.Capture,
	}

	for value, count := range r.Data.Frequency {
		doc.Data.Frequency[fmt.Sprintf("0x%02X", value)] = count
	}

	for _, rec := range r.Recommendations {
		doc.Recommendations = append(doc.Recommendations, RecommendationRecord{
			Kind:    rec.Kind,
			Level:   rec.Level,
			Value:   rec.Value,
			Limit:   rec.Limit,
			Message: message(rec),
			Hints:   append([]string{}, hints(rec.Kind)...),
		})
	}

	return doc
}
