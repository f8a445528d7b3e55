package analysis

import "github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"

// DeviceClass is the device verdict produced by Classify.
type DeviceClass string

const (
	DeviceCovox   DeviceClass = "COVOX_SPEECH_THING"
	DeviceDSS     DeviceClass = "DISNEY_SOUND_SOURCE"
	DeviceOPL2LPT DeviceClass = "POSSIBLE_OPL2LPT"
	DeviceUnknown DeviceClass = "UNKNOWN_DEVICE"
)

// Finding is a sub-result attached to a verdict.
type Finding string

const (
	FindingRegisterPattern     Finding = "REGISTER_PATTERN_DETECTED"
	FindingRegisterAlternation Finding = "REGISTER_ALTERNATION_DETECTED"
)

// TimingStats summarizes the delta sequence (all values in microseconds
// except SampleRateHz).
type TimingStats struct {
	Count        int     `json:"count" yaml:"count"` // Number of deltas
	Mean         float64 `json:"mean_us" yaml:"mean_us"`
	Median       float64 `json:"median_us" yaml:"median_us"`
	Stdev        float64 `json:"stdev_us" yaml:"stdev_us"`
	Min          int64   `json:"min_us" yaml:"min_us"`
	Max          int64   `json:"max_us" yaml:"max_us"`
	SampleRateHz float64 `json:"sample_rate_hz" yaml:"sample_rate_hz"`
}

// ValueCount is one entry of the most-common-values list.
type ValueCount struct {
	Value   uint8   `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// DataStats summarizes the data byte distribution.
type DataStats struct {
	Total     int           `json:"total" yaml:"total"`
	Min       uint8         `json:"min" yaml:"min"`
	Max       uint8         `json:"max" yaml:"max"`
	Mean      float64       `json:"mean" yaml:"mean"`
	Unique    int           `json:"unique" yaml:"unique"`
	Frequency map[uint8]int `json:"frequency" yaml:"frequency"`
	Top       []ValueCount  `json:"top" yaml:"top"`
}

// PatternResult is the outcome of an OPL2 register pattern check.
type PatternResult struct {
	Matched   int     `json:"matched" yaml:"matched"`
	Total     int     `json:"total" yaml:"total"`
	Fraction  float64 `json:"fraction" yaml:"fraction"`
	Confirmed bool    `json:"confirmed" yaml:"confirmed"`
}

// Verdict is the device classification plus any sub-findings.
type Verdict struct {
	Device   DeviceClass `json:"device" yaml:"device"`
	Findings []Finding   `json:"findings" yaml:"findings"`

	// Set only when the OPL2 branch ran
	Pattern     *PatternResult `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Alternation *PatternResult `json:"alternation,omitempty" yaml:"alternation,omitempty"`
}

// HasFinding reports whether f is attached to the verdict.
func (v Verdict) HasFinding(f Finding) bool {
	for _, got := range v.Findings {
		if got == f {
			return true
		}
	}
	return false
}

// RecommendationKind identifies an advisory. Renderers map kinds to text.
type RecommendationKind string

const (
	RecHighTimingVariance RecommendationKind = "HIGH_TIMING_VARIANCE"
	RecLowDataDiversity   RecommendationKind = "LOW_DATA_DIVERSITY"
	RecShortCapture       RecommendationKind = "SHORT_CAPTURE"
	RecRingOverflow       RecommendationKind = "RING_OVERFLOW"
	RecDroppedRows        RecommendationKind = "DROPPED_ROWS"
)

// Level is the severity of an advisory.
type Level string

const (
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Recommendation is a single advisory. Value is the observed quantity and
// Limit the threshold it was compared against.
type Recommendation struct {
	Kind  RecommendationKind `json:"kind" yaml:"kind"`
	Level Level              `json:"level" yaml:"level"`
	Value float64            `json:"value" yaml:"value"`
	Limit float64            `json:"limit" yaml:"limit"`
}

// Result bundles everything a renderer needs.
type Result struct {
	Samples         int              `json:"samples" yaml:"samples"`
	Timing          TimingStats      `json:"timing" yaml:"timing"`
	Data            DataStats        `json:"data" yaml:"data"`
	Verdict         Verdict          `json:"verdict" yaml:"verdict"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	DurationSeconds float64          `json:"duration_seconds" yaml:"duration_seconds"`
	Capture         capture.Meta     `json:"capture" yaml:"capture"`
}
