package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the CLI with args and returns what it wrote to stdout and
// stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	// Keep the user's config file out of the tests
	t.Setenv("LPTSNIFF_CONFIG_DIR", t.TempDir())

	oldOut, oldErr := os.Stdout, os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout, os.Stderr = wOut, wErr

	// Read in background to prevent pipe buffer from blocking
	var stdout, stderr bytes.Buffer
	done := make(chan struct{}, 2)
	go func() {
		stdout.ReadFrom(rOut)
		done <- struct{}{}
	}()
	go func() {
		stderr.ReadFrom(rErr)
		done <- struct{}{}
	}()

	// Reset flags to prevent accumulation between tests
	resetFlags(rootCmd)

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// Restore stdout/stderr and wait for readers
	wOut.Close()
	wErr.Close()
	os.Stdout, os.Stderr = oldOut, oldErr
	<-done
	<-done

	return stdout.String(), stderr.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func simulateTo(t *testing.T, dir, kind string, extra ...string) string {
	t.Helper()
	path := filepath.Join(dir, kind+".csv")
	args := append([]string{"simulate", kind, "--samples", "3000", "--seed", "11", "--output", path}, extra...)
	if _, stderr, err := execute(t, args...); err != nil {
		t.Fatalf("simulate %s failed: %v\n%s", kind, err, stderr)
	}
	return path
}

func TestSimulateE2E(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "covox to file",
			args:        []string{"simulate", "covox", "--samples", "1000", "--output", filepath.Join(dir, "c.csv")},
			wantContain: []string{"✓ Wrote 1000 samples", "c.csv"},
		},
		{
			name:        "opl2 to stdout",
			args:        []string{"simulate", "OPL2", "--samples", "10"},
			wantContain: []string{"# lptsniff simulated capture: opl2 (expect POSSIBLE_OPL2LPT)", "TIMESTAMP,DATA"},
		},
		{
			name:    "unknown device",
			args:    []string{"simulate", "sb16"},
			wantErr: true,
		},
		{
			name:    "too few samples",
			args:    []string{"simulate", "dss", "--samples", "1"},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"simulate"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, _, err := execute(t, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}

			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestAnalyzeE2E(t *testing.T) {
	dir := t.TempDir()
	covox := simulateTo(t, dir, "covox")
	dss := simulateTo(t, dir, "dss")
	opl2 := simulateTo(t, dir, "opl2")
	noise := simulateTo(t, dir, "noise")

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
		wantMissing []string
	}{
		{
			name: "covox",
			args: []string{"analyze", covox},
			wantContain: []string{
				"Captured 3000 samples",
				"Sample rate:    22222 Hz (22.2 kHz)",
				"✓ COVOX SPEECH THING detected",
				"Continuous streaming DAC",
			},
		},
		{
			name:        "dss",
			args:        []string{"analyze", dss},
			wantContain: []string{"✓ DISNEY SOUND SOURCE detected", "FIFO-based DAC"},
		},
		{
			name: "opl2",
			args: []string{"analyze", opl2},
			wantContain: []string{
				"? Possible OPL2LPT detected",
				"✓ OPL2 register write pattern detected",
				"⚠ High timing variance detected",
			},
			wantMissing: []string{"Address/data alternation"},
		},
		{
			name:        "opl2 strict",
			args:        []string{"analyze", "--strict-opl2", opl2},
			wantContain: []string{"✓ Address/data alternation"},
		},
		{
			name:        "noise",
			args:        []string{"analyze", noise},
			wantContain: []string{"? UNKNOWN DEVICE", "Timing doesn't match known patterns"},
		},
		{
			name:    "missing argument",
			args:    []string{"analyze"},
			wantErr: true,
		},
		{
			name:    "unsupported format",
			args:    []string{"analyze", "--format", "xml", covox},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, _, err := execute(t, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}

			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
			for _, unwanted := range tt.wantMissing {
				if strings.Contains(output, unwanted) {
					t.Errorf("Output contains unexpected string: %q", unwanted)
				}
			}
		})
	}
}

func TestAnalyzeGracefulFailures(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.csv")
	if err := os.WriteFile(short, []byte("# one strobe only\n100,7F\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{
			name:       "file not found",
			args:       []string{"analyze", filepath.Join(dir, "missing.csv")},
			wantStderr: "Error: File '" + filepath.Join(dir, "missing.csv") + "' not found",
		},
		{
			name:       "insufficient samples",
			args:       []string{"analyze", short},
			wantStderr: "Error: Not enough samples captured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("expected graceful return, got %v", err)
			}
			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr missing %q\nGot:\n%s", tt.wantStderr, stderr)
			}
			if strings.Contains(stdout, "Timing Analysis") {
				t.Errorf("no report expected on failure, got:\n%s", stdout)
			}
		})
	}
}

func TestAnalyzeMachineReadable(t *testing.T) {
	dir := t.TempDir()
	covox := simulateTo(t, dir, "covox")

	stdout, _, err := execute(t, "analyze", "--format", "json", covox)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if err := report.ValidateJSON([]byte(stdout)); err != nil {
		t.Errorf("JSON report does not match schema: %v", err)
	}
	if !strings.Contains(stdout, `"device": "COVOX_SPEECH_THING"`) {
		t.Errorf("JSON missing device:\n%s", stdout)
	}

	yamlPath := filepath.Join(dir, "report.yaml")
	stdout, _, err = execute(t, "analyze", "--format", "yaml", "--output", yamlPath, covox)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(stdout, "✓ Report written to "+yamlPath) {
		t.Errorf("missing confirmation, got:\n%s", stdout)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "device: COVOX_SPEECH_THING") {
		t.Errorf("YAML missing device:\n%s", data)
	}
}

func TestSignaturesE2E(t *testing.T) {
	dir := t.TempDir()
	sigFile := filepath.Join(dir, "devices.sexp")
	content := "; narrower covox band\n(signatures (device covox (band 21000 23000)))\n"
	if err := os.WriteFile(sigFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	output, _, err := execute(t, "signatures")
	if err != nil {
		t.Fatalf("signatures failed: %v", err)
	}
	for _, want := range []string{
		"Device Signatures",
		"covox    Covox Speech Thing",
		"20000 < rate < 24000 Hz",
		"6000 < rate < 8000 Hz",
		"mean delta > 50 μs, max delta > 500 μs",
		"Unknown device",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	output, _, err = execute(t, "signatures", "--signatures", sigFile)
	if err != nil {
		t.Fatalf("signatures with overrides failed: %v", err)
	}
	if !strings.Contains(output, "21000 < rate < 23000 Hz") {
		t.Errorf("override not applied:\n%s", output)
	}

	if _, _, err := execute(t, "signatures", "--signatures", filepath.Join(dir, "none.sexp")); err == nil {
		t.Errorf("expected error for a missing signature file")
	}
}

func TestConfigE2E(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lptsniff.toml")

	output, _, err := execute(t, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(output, "✓ Wrote default configuration to "+path) {
		t.Errorf("unexpected output:\n%s", output)
	}

	if _, _, err := execute(t, "config", "init", "--config", path); err == nil {
		t.Errorf("expected error when the config file exists")
	}
	if _, _, err := execute(t, "config", "init", "--force", "--config", path); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}

	output, _, err = execute(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"version = 1", "[analysis]", "[report]", `format = "text"`} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	// A config file selecting JSON changes the default report format
	jsonCfg := filepath.Join(dir, "json.toml")
	if err := os.WriteFile(jsonCfg, []byte("version = 1\n[report]\nformat = \"json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	covox := simulateTo(t, dir, "covox")
	output, _, err = execute(t, "analyze", "--config", jsonCfg, covox)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("expected JSON output from config default, got:\n%s", output)
	}
}
