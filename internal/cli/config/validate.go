package config

import (
	"fmt"

	"github.com/leapstack-labs/pivotsql/pkg/dialect"
)

// validOutputFormats are the render formats the CLI understands.
var validOutputFormats = map[string]bool{
	"table":    true,
	"json":     true,
	"csv":      true,
	"md":       true,
	"markdown": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !validOutputFormats[c.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want table, json, csv, or md)", c.OutputFormat)
	}

	if _, err := dialect.ParseFold(c.CaseFold); err != nil {
		return err
	}

	// Target validity is checked lazily: commands that don't touch the
	// warehouse must work without one.
	return nil
}

// Fold returns the configured case-fold policy.
func (c *Config) Fold() dialect.Fold {
	f, err := dialect.ParseFold(c.CaseFold)
	if err != nil {
		return dialect.FoldLower
	}
	return f
}
