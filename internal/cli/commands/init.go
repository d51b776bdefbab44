package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type starterTarget struct {
	Type      string `yaml:"type"`
	Path      string `yaml:"path,omitempty"`
	Account   string `yaml:"account,omitempty"`
	User      string `yaml:"user,omitempty"`
	Password  string `yaml:"password,omitempty"`
	Database  string `yaml:"database,omitempty"`
	Schema    string `yaml:"schema,omitempty"`
	Warehouse string `yaml:"warehouse,omitempty"`
	Role      string `yaml:"role,omitempty"`
}

type starterConfig struct {
	Environment string                   `yaml:"environment"`
	Output      string                   `yaml:"output"`
	CaseFold    string                   `yaml:"case_fold"`
	Targets     map[string]starterTarget `yaml:"targets"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter pivotsql.yaml",
		Long: `Write a starter pivotsql.yaml with a local DuckDB target and a
Snowflake target to fill in. The active target is chosen by the
environment key or the --target flag.`,
		Example: `  # Initialize in the current directory
  pivotsql init

  # Initialize in a new directory
  pivotsql init my-project

  # Overwrite an existing config
  pivotsql init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "pivotsql.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("pivotsql.yaml already exists. Use --force to overwrite")
	}

	starter := starterConfig{
		Environment: "dev",
		Output:      "table",
		CaseFold:    "lower",
		Targets: map[string]starterTarget{
			"dev": {
				Type: "duckdb",
				Path: "dev.duckdb",
			},
			"prod": {
				Type:      "snowflake",
				Account:   "my-account",
				User:      "my-user",
				Password:  "",
				Database:  "ANALYTICS",
				Schema:    "PUBLIC",
				Warehouse: "COMPUTE_WH",
				Role:      "",
			},
		},
	}

	data, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# pivotsql configuration\n# The active target is targets.<environment>, or use --target to override.\n")
	if err := os.WriteFile(configPath, append(header, data...), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  1. Fill in the snowflake target credentials")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  2. Run 'pivotsql columns <table>' to check connectivity")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  3. Run 'pivotsql pivot' to create a pivot table")

	return nil
}
