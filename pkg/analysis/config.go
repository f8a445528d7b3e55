package analysis

import "fmt"

// Band is an open interval of sample rates in Hz. Both bounds are exclusive.
type Band struct {
	Low  float64 `json:"low_hz" yaml:"low_hz" toml:"low_hz"`
	High float64 `json:"high_hz" yaml:"high_hz" toml:"high_hz"`
}

// Contains reports whether Low < hz < High.
func (b Band) Contains(hz float64) bool {
	return hz > b.Low && hz < b.High
}

// Config controls the classification thresholds and advisory rules.
type Config struct {
	// Device rate bands
	CovoxBand Band // Continuous DAC, ~22 kHz nominal (default: 20000..24000)
	DSSBand   Band // FIFO DAC, ~7 kHz nominal (default: 6000..8000)

	// OPL2 timing heuristics, in microseconds
	OPL2MinMeanDelta float64 // Mean delta must exceed this (default: 50)
	OPL2MinMaxDelta  int64   // Max delta must exceed this (default: 500)

	// OPL2 register pattern
	OPL2MaxRegister uint8   // Highest valid register address (default: 0xF5)
	OPL2MinFraction float64 // Fraction of in-range bytes required (default: 0.5, exclusive)
	StrictOPL2      bool    // Also check address/data alternation (default: false)

	// Advisory thresholds
	VarianceRatio      float64 // Stdev above VarianceRatio*mean is high variance (default: 0.1)
	MinUniqueValues    int     // Fewer distinct bytes is low diversity (default: 16)
	MinDurationSeconds float64 // Shorter captures get an advisory (default: 1.0)

	// Number of most common values reported (default: 5)
	TopValues int
}

// DefaultConfig returns a Config with the stock thresholds.
func DefaultConfig() *Config {
	return &Config{
		CovoxBand:          Band{Low: 20000, High: 24000},
		DSSBand:            Band{Low: 6000, High: 8000},
		OPL2MinMeanDelta:   50,
		OPL2MinMaxDelta:    500,
		OPL2MaxRegister:    0xF5,
		OPL2MinFraction:    0.5,
		StrictOPL2:         false,
		VarianceRatio:      0.1,
		MinUniqueValues:    16,
		MinDurationSeconds: 1.0,
		TopValues:          5,
	}
}

// Validate checks the configuration for errors. Counts that make no sense
// are clamped rather than rejected.
func (c *Config) Validate() error {
	if c.TopValues < 1 {
		c.TopValues = 5
	}
	if c.MinUniqueValues < 0 {
		c.MinUniqueValues = 0
	}

	if c.CovoxBand.Low >= c.CovoxBand.High {
		return fmt.Errorf("analysis: covox band is empty (%.0f..%.0f Hz)", c.CovoxBand.Low, c.CovoxBand.High)
	}
	if c.DSSBand.Low >= c.DSSBand.High {
		return fmt.Errorf("analysis: dss band is empty (%.0f..%.0f Hz)", c.DSSBand.Low, c.DSSBand.High)
	}
	if c.OPL2MinFraction < 0 || c.OPL2MinFraction > 1 {
		return fmt.Errorf("analysis: opl2 fraction %.2f outside [0,1]", c.OPL2MinFraction)
	}
	if c.VarianceRatio < 0 {
		return fmt.Errorf("analysis: negative variance ratio %.2f", c.VarianceRatio)
	}

	return nil
}
