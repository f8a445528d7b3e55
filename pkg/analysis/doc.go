// Package analysis infers which retro audio peripheral produced a parallel-port
// capture.
//
// # Overview
//
// The analysis is a single pass over an in-memory capture:
//  1. TimingAnalyzer computes inter-sample interval statistics and the
//     derived sample rate (AnalyzeTiming)
//  2. DataAnalyzer computes the byte value distribution (AnalyzeData)
//  3. DeviceClassifier maps the timing statistics to a device verdict
//     (Classify), consulting the OPL2 PatternChecker only on the OPL2 branch
//  4. Recommender emits advisories about capture quality (Recommend)
//
// Analyze runs all of the above and returns a Result bundle. Nothing in this
// package performs I/O or formats text; see package report for rendering.
//
// # Usage
//
//	reader, _ := capture.NewReader()
//	c, err := reader.ReadFile("capture.csv")
//	if err != nil {
//		return err
//	}
//
//	result, err := analysis.Analyze(c, analysis.DefaultConfig())
//	if errors.Is(err, analysis.ErrInsufficientSamples) {
//		// fewer than two samples, nothing to analyze
//	}
//
// # Classification
//
// Checks are evaluated top to bottom and the first match wins:
//   - 20000 < rate < 24000 Hz: Covox Speech Thing (continuous DAC, ~22 kHz)
//   - 6000 < rate < 8000 Hz: Disney Sound Source (FIFO DAC, ~7 kHz)
//   - mean delta > 50 µs and max delta > 500 µs: possible OPL2LPT
//   - otherwise: unknown device
//
// All bounds are exclusive. The bands live in Config and can be overridden
// from a signature file (package signature).
//
// # Limitations
//
// The OPL2 register check only tests the value range of the bytes
// (fraction of bytes <= 0xF5). It does not verify address/data alternation
// unless Config.StrictOPL2 is set.
package analysis
