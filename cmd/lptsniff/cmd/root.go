package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lptsniff",
	Short: "Parallel port sniffer capture analyzer",
	Long: `Analyze strobe captures taken by the PARALAX parallel port sniffer and
identify the audio device the host was driving: Covox Speech Thing, Disney
Sound Source or an OPL2LPT FM board.

Examples:
  lptsniff analyze capture.csv                     # Analyze a capture
  lptsniff analyze --format json capture.csv       # Machine-readable report
  lptsniff simulate covox --output covox.csv       # Generate a test capture
  lptsniff interfaces                              # List sniffer boards on USB`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default is the user config dir's lptsniff/config.toml)")
}

// logf prints progress to stderr when --verbose is set so that report output
// on stdout stays clean.
func logf(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// writeOutput runs write against path, or stdout when path is empty. The file
// is closed before returning so a failed flush is reported.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
