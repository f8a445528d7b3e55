// Package config handles the lptsniff configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/report"
)

// Version is the current configuration schema version.
const Version = 1

// Config is the on-disk configuration of the lptsniff CLI.
type Config struct {
	Version int `toml:"version" yaml:"version"`

	Analysis   AnalysisConfig   `toml:"analysis" yaml:"analysis"`
	Report     ReportConfig     `toml:"report" yaml:"report"`
	Signatures SignaturesConfig `toml:"signatures" yaml:"signatures"`
	Simulate   SimulateConfig   `toml:"simulate" yaml:"simulate"`
}

// AnalysisConfig mirrors analysis.Config.
type AnalysisConfig struct {
	CovoxBand analysis.Band `toml:"covox_band" yaml:"covox_band"`
	DSSBand   analysis.Band `toml:"dss_band" yaml:"dss_band"`

	OPL2MinMeanDeltaUS float64 `toml:"opl2_min_mean_delta_us" yaml:"opl2_min_mean_delta_us"`
	OPL2MinMaxDeltaUS  int64   `toml:"opl2_min_max_delta_us" yaml:"opl2_min_max_delta_us"`
	OPL2MaxRegister    uint8   `toml:"opl2_max_register" yaml:"opl2_max_register"`
	OPL2MinFraction    float64 `toml:"opl2_min_fraction" yaml:"opl2_min_fraction"`
	StrictOPL2         bool    `toml:"strict_opl2" yaml:"strict_opl2"`

	VarianceRatio      float64 `toml:"variance_ratio" yaml:"variance_ratio"`
	MinUniqueValues    int     `toml:"min_unique_values" yaml:"min_unique_values"`
	MinDurationSeconds float64 `toml:"min_duration_seconds" yaml:"min_duration_seconds"`
	TopValues          int     `toml:"top_values" yaml:"top_values"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Format string `toml:"format" yaml:"format"`
}

// SignaturesConfig points at an optional signature override file.
type SignaturesConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// SimulateConfig holds defaults for the simulate command.
type SimulateConfig struct {
	Samples  int   `toml:"samples" yaml:"samples"`
	Seed     int64 `toml:"seed" yaml:"seed"`
	JitterUS int   `toml:"jitter_us" yaml:"jitter_us"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	a := analysis.DefaultConfig()
	return &Config{
		Version: Version,
		Analysis: AnalysisConfig{
			CovoxBand:          a.CovoxBand,
			DSSBand:            a.DSSBand,
			OPL2MinMeanDeltaUS: a.OPL2MinMeanDelta,
			OPL2MinMaxDeltaUS:  a.OPL2MinMaxDelta,
			OPL2MaxRegister:    a.OPL2MaxRegister,
			OPL2MinFraction:    a.OPL2MinFraction,
			StrictOPL2:         a.StrictOPL2,
			VarianceRatio:      a.VarianceRatio,
			MinUniqueValues:    a.MinUniqueValues,
			MinDurationSeconds: a.MinDurationSeconds,
			TopValues:          a.TopValues,
		},
		Report: ReportConfig{
			Format: string(report.FormatText),
		},
		Simulate: SimulateConfig{
			Samples: 50000,
			Seed:    1,
		},
	}
}

// Dir returns the lptsniff configuration directory. LPTSNIFF_CONFIG_DIR
// overrides the platform default.
func Dir() string {
	if dir := os.Getenv("LPTSNIFF_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".lptsniff"
	}
	return filepath.Join(base, "lptsniff")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the configuration from path. An empty path means ConfigPath(),
// and a missing default file yields the defaults. A missing explicit path is
// an error. TOML and YAML are chosen by extension; anything else is read as
// TOML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: unknown key %q", undecoded[0].String())
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies LPTSNIFF_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LPTSNIFF_FORMAT"); v != "" {
		c.Report.Format = v
	}
	if v := os.Getenv("LPTSNIFF_SIGNATURES"); v != "" {
		c.Signatures.Path = v
	}
	if v := os.Getenv("LPTSNIFF_STRICT_OPL2"); v != "" {
		c.Analysis.StrictOPL2 = v == "1" || strings.EqualFold(v, "true")
	}
}

// ToAnalysis converts the analysis section to an analysis.Config.
func (c *Config) ToAnalysis() *analysis.Config {
	a := c.Analysis
	return &analysis.Config{
		CovoxBand:          a.CovoxBand,
		DSSBand:            a.DSSBand,
		OPL2MinMeanDelta:   a.OPL2MinMeanDeltaUS,
		OPL2MinMaxDelta:    a.OPL2MinMaxDeltaUS,
		OPL2MaxRegister:    a.OPL2MaxRegister,
		OPL2MinFraction:    a.OPL2MinFraction,
		StrictOPL2:         a.StrictOPL2,
		VarianceRatio:      a.VarianceRatio,
		MinUniqueValues:    a.MinUniqueValues,
		MinDurationSeconds: a.MinDurationSeconds,
		TopValues:          a.TopValues,
	}
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode TOML: %w", err)
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := c.Write(f); err != nil {
		return err
	}
	return f.Close()
}
