package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/probe"
	"github.com/spf13/cobra"
)

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List PARALAX sniffer boards on USB",
	Long: `Scan the host for RP2040 boards running the sniffer firmware (or sitting
in BOOTSEL mode waiting for it) and print a summary of what was found. Use this
to verify the sniffer is connected before recording a capture.`,
	Args: cobra.NoArgs,
	RunE: runInterfaces,
}

func init() {
	rootCmd.AddCommand(interfacesCmd)
}

func runInterfaces(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	infos, err := probe.DiscoverSniffers(ctx)
	if err != nil {
		return fmt.Errorf("discover sniffers: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No sniffer boards found.")
		return nil
	}

	fmt.Println("Detected sniffer interfaces:")
	for _, info := range infos {
		if info.Kind == probe.KindSimulator {
			fmt.Printf("  - %s [%s]\n", info.Label(), info.Kind)
			continue
		}
		fmt.Printf("  - %s [%s] (VID:PID %04X:%04X, %s)\n",
			info.Label(), info.Kind, info.VendorID, info.ProductID, info.Path)
	}

	return nil
}
