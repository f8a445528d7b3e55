package report

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
)

// advisoryText holds the headline and hints shown for each advisory kind.
type advisoryText struct {
	Headline string
	Hints    []string
}

var advisories = map[analysis.RecommendationKind]advisoryText{
	analysis.RecHighTimingVariance: {
		Headline: "High timing variance detected",
		Hints: []string{
			"Check for system interrupts on DOS machine",
			"Verify STROBE connection quality",
		},
	},
	analysis.RecLowDataDiversity: {
		Headline: "Low data diversity",
		Hints: []string{
			"May indicate poor connection on data lines",
			"Verify D0-D7 wiring",
		},
	},
	analysis.RecShortCapture: {
		Headline: "Short capture",
		Hints: []string{
			"Consider longer capture for better analysis",
		},
	},
	analysis.RecRingOverflow: {
		Headline: "Sniffer ring buffer overflowed",
		Hints: []string{
			"Frames were lost on the sniffer; long deltas may be artefacts",
			"Lower the host write rate or raise the serial baud rate",
		},
	},
	analysis.RecDroppedRows: {
		Headline: "Malformed rows skipped",
		Hints: []string{
			"Rows that were not t_us,data_hex were ignored",
		},
	},
}

// message renders the one-line summary of an advisory.
func message(rec analysis.Recommendation) string {
	text, ok := advisories[rec.Kind]
	if !ok {
		return string(rec.Kind)
	}

	switch rec.Kind {
	case analysis.RecHighTimingVariance:
		return fmt.Sprintf("%s (stdev %.1f μs > %.1f μs)", text.Headline, rec.Value, rec.Limit)
	case analysis.RecLowDataDiversity:
		return fmt.Sprintf("%s (%d unique values < %d)", text.Headline, int(rec.Value), int(rec.Limit))
	case analysis.RecShortCapture:
		return fmt.Sprintf("%s (%.2f s < %.2f s)", text.Headline, rec.Value, rec.Limit)
	case analysis.RecRingOverflow:
		return fmt.Sprintf("%s (%d frames lost)", text.Headline, int(rec.Value))
	case analysis.RecDroppedRows:
		return fmt.Sprintf("%s (%d rows)", text.Headline, int(rec.Value))
	}
	return text.Headline
}

func hints(kind analysis.RecommendationKind) []string {
	return advisories[kind].Hints
}
