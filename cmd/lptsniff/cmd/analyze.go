package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/OpenTraceLab/OpenTraceLPT/internal/config"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/report"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/signature"
	"github.com/spf13/cobra"
)

var (
	reportFormat   string
	outputPath     string
	signaturesPath string
	strictOPL2     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <capture.csv>",
	Short: "Identify the device behind a sniffer capture",
	Long: `Read a sniffer capture (t_us,data_hex rows), compute timing and data
statistics, classify the device and print capture-quality recommendations.

Examples:
  lptsniff analyze capture.csv
  lptsniff analyze --strict-opl2 opl2.csv
  lptsniff analyze --format json --output report.json capture.csv
  lptsniff analyze --signatures devices.sexp capture.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&reportFormat, "format", "f", "",
		"report format: text, json or yaml (default from config, else text)")
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVarP(&signaturesPath, "signatures", "s", "",
		"signature file overriding the classification thresholds")
	analyzeCmd.Flags().BoolVar(&strictOPL2, "strict-opl2", false,
		"also check OPL2 address/data alternation")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	acfg, err := analysisConfig(cfg, signaturesPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("strict-opl2") {
		acfg.StrictOPL2 = strictOPL2
	}

	formatName := cfg.Report.Format
	if cmd.Flags().Changed("format") {
		formatName = reportFormat
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	logf("Reading capture: %s\n", filename)

	reader, err := capture.NewReader()
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}

	c, err := reader.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: File '%s' not found\n", filename)
			return nil
		}
		return fmt.Errorf("failed to read capture: %w", err)
	}

	logf("Loaded %d samples (%d comment lines, %d malformed rows skipped)\n",
		c.Len(), c.Meta.Comments, c.Meta.Dropped)
	if c.Meta.FirmwareStats {
		logf("Firmware reported %d frames, %d lost to ring overflow\n",
			c.Meta.FramesReported, c.Meta.RingDropped)
	}

	result, err := analysis.Analyze(c, acfg)
	if err != nil {
		if errors.Is(err, analysis.ErrInsufficientSamples) {
			fmt.Fprintln(os.Stderr, "Error: Not enough samples captured")
			return nil
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	err = writeOutput(outputPath, func(out io.Writer) error {
		return report.Render(out, result, format, filename)
	})
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if outputPath != "" {
		fmt.Printf("✓ Report written to %s (%s)\n", outputPath, format)
	}

	return nil
}

// analysisConfig builds the analysis thresholds from the config file and an
// optional signature file. An explicit path wins over the config's.
func analysisConfig(cfg *config.Config, sigPath string) (*analysis.Config, error) {
	acfg := cfg.ToAnalysis()

	if sigPath == "" {
		sigPath = cfg.Signatures.Path
	}
	if sigPath == "" {
		return acfg, nil
	}

	logf("Loading signatures: %s\n", sigPath)
	ov, err := signature.LoadFile(sigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load signatures: %w", err)
	}
	ov.Apply(acfg)

	if err := acfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signatures: %w", err)
	}
	return acfg, nil
}
