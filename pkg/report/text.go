package report

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/signature"
)

const bannerWidth = 64

// Text renders doc as the human-readable report.
func Text(doc *Document) string {
	var b strings.Builder

	if doc.Source != "" {
		fmt.Fprintf(&b, "Capture: %s\n", doc.Source)
	}
	fmt.Fprintf(&b, "Captured %d samples\n", doc.Samples)
	if doc.Capture.Dropped > 0 || doc.Capture.Comments > 0 {
		fmt.Fprintf(&b, "Skipped %d comment line(s), %d malformed row(s)\n",
			doc.Capture.Comments, doc.Capture.Dropped)
	}
	b.WriteString("\n")

	writeTiming(&b, doc)
	writeData(&b, doc)
	writeVerdict(&b, doc)
	writeRecommendations(&b, doc)

	return b.String()
}

func banner(b *strings.Builder, title string) {
	line := strings.Repeat("═", bannerWidth)
	fmt.Fprintf(b, "╔%s╗\n", line)
	fmt.Fprintf(b, "║ %-*s ║\n", bannerWidth-2, title)
	fmt.Fprintf(b, "╚%s╝\n", line)
}

func writeTiming(b *strings.Builder, doc *Document) {
	t := doc.Timing
	banner(b, "Timing Analysis")
	fmt.Fprintf(b, "Average period: %.1f μs\n", t.Mean)
	fmt.Fprintf(b, "Median period:  %.1f μs\n", t.Median)
	fmt.Fprintf(b, "Std deviation:  %.1f μs\n", t.Stdev)
	fmt.Fprintf(b, "Min period:     %d μs\n", t.Min)
	fmt.Fprintf(b, "Max period:     %d μs\n", t.Max)
	fmt.Fprintf(b, "Sample rate:    %.0f Hz (%.1f kHz)\n", t.SampleRateHz, t.SampleRateHz/1000)
	b.WriteString("\n")
}

func writeData(b *strings.Builder, doc *Document) {
	d := doc.Data
	banner(b, "Data Analysis")
	fmt.Fprintf(b, "Min value:     0x%02X (%d)\n", d.Min, d.Min)
	fmt.Fprintf(b, "Max value:     0x%02X (%d)\n", d.Max, d.Max)
	fmt.Fprintf(b, "Mean value:    %.1f\n", d.Mean)
	fmt.Fprintf(b, "Unique values: %d\n", d.Unique)
	b.WriteString("Most common values:\n")
	for _, vc := range d.Top {
		fmt.Fprintf(b, "  0x%02X: %d times (%.1f%%)\n", vc.Value, vc.Count, vc.Percent)
	}
	b.WriteString("\n")
}

func writeVerdict(b *strings.Builder, doc *Document) {
	v := doc.Verdict
	sig := signature.Lookup(v.Device)

	banner(b, "Device Identification")
	switch v.Device {
	case analysis.DeviceCovox, analysis.DeviceDSS:
		fmt.Fprintf(b, "✓ %s detected\n", strings.ToUpper(sig.Name))
	case analysis.DeviceOPL2LPT:
		fmt.Fprintf(b, "? %s detected\n", sig.Name)
	default:
		fmt.Fprintf(b, "? %s\n", strings.ToUpper(sig.Name))
	}
	for _, trait := range sig.Traits {
		fmt.Fprintf(b, "  - %s\n", trait)
	}

	if v.Pattern != nil && v.Pattern.Confirmed {
		fmt.Fprintf(b, "  ✓ OPL2 register write pattern detected (%.0f%% of bytes in register range)\n",
			v.Pattern.Fraction*100)
	}
	if v.Alternation != nil {
		mark := "✗"
		if v.Alternation.Confirmed {
			mark = "✓"
		}
		fmt.Fprintf(b, "  %s Address/data alternation: %d/%d pairs hit decoded registers\n",
			mark, v.Alternation.Matched, v.Alternation.Total)
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, doc *Document) {
	banner(b, "Recommendations")

	var short *RecommendationRecord
	var trailing []RecommendationRecord
	for i := range doc.Recommendations {
		rec := doc.Recommendations[i]
		switch rec.Kind {
		case analysis.RecHighTimingVariance, analysis.RecLowDataDiversity:
			writeAdvisory(b, rec)
		case analysis.RecShortCapture:
			short = &doc.Recommendations[i]
		default:
			trailing = append(trailing, rec)
		}
	}

	fmt.Fprintf(b, "✓ Capture duration: %.2f seconds\n", doc.DurationSeconds)
	if short != nil {
		for _, hint := range short.Hints {
			fmt.Fprintf(b, "  - %s\n", hint)
		}
	}

	for _, rec := range trailing {
		writeAdvisory(b, rec)
	}
}

func writeAdvisory(b *strings.Builder, rec RecommendationRecord) {
	mark := "⚠"
	if rec.Level == analysis.LevelInfo {
		mark = "ℹ"
	}
	fmt.Fprintf(b, "%s %s\n", mark, rec.Message)
	for _, hint := range rec.Hints {
		fmt.Fprintf(b, "  - %s\n", hint)
	}
}
