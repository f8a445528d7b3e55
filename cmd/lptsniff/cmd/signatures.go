package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceLPT/internal/config"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/signature"
	"github.com/spf13/cobra"
)

var signaturesCmd = &cobra.Command{
	Use:   "signatures",
	Short: "List the device signature database",
	Long: `Print every device class the analyzer can report, together with the
classification band in effect after the config file and signature overrides.

Examples:
  lptsniff signatures
  lptsniff signatures --signatures devices.sexp`,
	Args: cobra.NoArgs,
	RunE: runSignatures,
}

func init() {
	rootCmd.AddCommand(signaturesCmd)

	signaturesCmd.Flags().StringVarP(&signaturesPath, "signatures", "s", "",
		"signature file overriding the classification thresholds")
}

func runSignatures(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	acfg, err := analysisConfig(cfg, signaturesPath)
	if err != nil {
		return err
	}

	fmt.Printf("╔════════════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║ Device Signatures                                              ║\n")
	fmt.Printf("╚════════════════════════════════════════════════════════════════╝\n\n")

	for _, sig := range signature.All() {
		fmt.Printf("%-8s %s\n", sig.Key, sig.Name)
		fmt.Printf("  Class:       %s\n", sig.Device)
		fmt.Printf("  Description: %s\n", sig.Description)

		if band, ok := sig.Band(acfg); ok {
			fmt.Printf("  Rate band:   %.0f < rate < %.0f Hz (nominal %.0f Hz)\n",
				band.Low, band.High, sig.NominalHz)
		}
		if sig.Device == analysis.DeviceOPL2LPT {
			fmt.Printf("  Timing:      mean delta > %.0f μs, max delta > %d μs\n",
				acfg.OPL2MinMeanDelta, acfg.OPL2MinMaxDelta)
			fmt.Printf("  Pattern:     > %.0f%% of bytes <= 0x%02X\n",
				acfg.OPL2MinFraction*100, acfg.OPL2MaxRegister)
		}
		fmt.Println()
	}

	return nil
}
