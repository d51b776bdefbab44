// Package main provides the pivotsql CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/pivotsql/internal/cli"

	// Register adapters.
	_ "github.com/leapstack-labs/pivotsql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/pivotsql/pkg/adapters/snowflake"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
