package config

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"github.com/OpenTraceLab/OpenTraceLPT/pkg/report"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	if err := c.ToAnalysis().Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "analysis",
			Message: strings.TrimPrefix(err.Error(), "analysis: "),
		})
	}

	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		errs = append(errs, ValidationError{
			Field:   "report.format",
			Message: fmt.Sprintf("unsupported format %q", c.Report.Format),
		})
	}

	if c.Simulate.Samples < analysis.MinSamples {
		errs = append(errs, ValidationError{
			Field:   "simulate.samples",
			Message: fmt.Sprintf("must be at least %d", analysis.MinSamples),
		})
	}
	if c.Simulate.JitterUS < 0 {
		errs = append(errs, ValidationError{
			Field:   "simulate.jitter_us",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
