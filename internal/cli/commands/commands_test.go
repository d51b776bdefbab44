// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPivotCommand(t *testing.T) {
	cmd := NewPivotCommand()

	assert.Equal(t, "pivot", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"source", "aggregate", "value-column", "pivot-column", "destination", "suffix", "sort", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}

	assert.Equal(t, "sum", cmd.Flags().Lookup("aggregate").DefValue)
}

func TestNewColumnsCommand(t *testing.T) {
	cmd := NewColumnsCommand()

	assert.Equal(t, "columns <relation>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"), "flag format should exist")
}

func TestNewFlagsCommand(t *testing.T) {
	cmd := NewFlagsCommand()

	assert.Equal(t, "flags", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"codelist", "descr-column", "source", "code-column", "code-type-column", "destination", "where"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}

	assert.Equal(t, "descr", cmd.Flags().Lookup("descr-column").DefValue)
}

func TestNewQueryCommand(t *testing.T) {
	cmd := NewQueryCommand()

	assert.Equal(t, "query [SQL]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"), "flag format should exist")
	assert.NotNil(t, cmd.Flags().Lookup("input"), "flag input should exist")
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "1.2.3")
}

func runInitCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewInitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	// Silence cobra's own error printing in tests
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommand_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := runInitCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "pivotsql.yaml")

	data, err := os.ReadFile(filepath.Join(dir, "pivotsql.yaml"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "environment: dev")
	assert.Contains(t, content, "type: duckdb")
	assert.Contains(t, content, "type: snowflake")
}

func TestInitCommand_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile("pivotsql.yaml", []byte("environment: dev\n"), 0600))

	_, err := runInitCommand(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// --force overwrites
	_, err = runInitCommand(t, "--force")
	require.NoError(t, err)
}

func TestInitCommand_Directory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := runInitCommand(t, "my-project")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "my-project", "pivotsql.yaml"))
	assert.NoError(t, statErr)
}

func TestOutputFormat(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("format", "f", "", "")

	cfg := testConfig()
	cfg.OutputFormat = "json"

	assert.Equal(t, "json", outputFormat(cmd, cfg))

	require.NoError(t, cmd.Flags().Set("format", "csv"))
	assert.Equal(t, "csv", outputFormat(cmd, cfg))
}

func TestQueryREPLHelp(t *testing.T) {
	var out strings.Builder
	printREPLHelp(&out)

	for _, want := range []string{".help", ".columns", ".format", ".quit"} {
		assert.Contains(t, out.String(), want)
	}
}
