// Package config provides configuration management for the pivotsql CLI.
//
// Configuration is layered: built-in defaults, then a pivotsql.yaml file,
// then PIVOTSQL_* environment variables, then CLI flags.
package config

import (
	"fmt"

	"github.com/leapstack-labs/pivotsql/pkg/adapter"
)

// TargetConfig describes one warehouse connection target.
type TargetConfig struct {
	// Type is the adapter type: "snowflake" or "duckdb"
	Type string `koanf:"type"`

	// Path is the database file path for file-based targets (DuckDB)
	Path string `koanf:"path"`

	// Database is the database name
	Database string `koanf:"database"`

	// Network settings
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Credentials
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Schema is the default schema to use
	Schema string `koanf:"schema"`

	// Snowflake-specific connection context
	Account   string `koanf:"account"`
	Warehouse string `koanf:"warehouse"`
	Role      string `koanf:"role"`

	// Options contains additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target to an adapter connection config.
func (t TargetConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:      t.Type,
		Path:      t.Path,
		Host:      t.Host,
		Port:      t.Port,
		Database:  t.Database,
		Username:  t.User,
		Password:  t.Password,
		Schema:    t.Schema,
		Account:   t.Account,
		Warehouse: t.Warehouse,
		Role:      t.Role,
		Options:   t.Options,
		Params:    t.Params,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	// Environment selects which named target to use by default
	Environment string `koanf:"environment"`

	// OutputFormat is the default render format (table, json, csv, md)
	OutputFormat string `koanf:"output"`

	// Verbose enables debug logging
	Verbose bool `koanf:"verbose"`

	// CaseFold is the identifier case-fold policy (lower, upper, none)
	CaseFold string `koanf:"case_fold"`

	// Target is a single inline target (simple projects)
	Target TargetConfig `koanf:"target"`

	// Targets maps environment names to targets (dev, staging, prod)
	Targets map[string]TargetConfig `koanf:"targets"`
}

// ResolveTarget picks the connection target to use. Priority: explicit
// override > named target for the configured environment > inline target.
func (c *Config) ResolveTarget(override string) (TargetConfig, error) {
	if override != "" {
		t, ok := c.Targets[override]
		if !ok {
			return TargetConfig{}, fmt.Errorf("target %q not found in configuration", override)
		}
		return t, nil
	}

	if c.Environment != "" {
		if t, ok := c.Targets[c.Environment]; ok {
			return t, nil
		}
	}

	if c.Target.Type != "" {
		return c.Target, nil
	}

	return TargetConfig{}, fmt.Errorf("no target configured\nHint: Add a target to pivotsql.yaml or pass --target")
}
