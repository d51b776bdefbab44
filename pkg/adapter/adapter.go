// Package adapter provides warehouse adapter interfaces and shared
// implementations for pivotsql's statement generators.
//
// This package contains the contract that all warehouse adapters must
// implement. Concrete adapter implementations are in pkg/adapters/
// subdirectories.
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/pivotsql/pkg/dialect"
)

// Config holds the configuration for connecting to a warehouse.
type Config struct {
	// Type specifies the warehouse type (e.g., "snowflake", "duckdb")
	Type string

	// Path is the file path for file-based databases (DuckDB).
	// Use ":memory:" for an in-memory database.
	Path string

	// Host and Port for network databases
	Host string
	Port int

	// Database is the database name
	Database string

	// Username and Password for authentication
	Username string
	Password string

	// Schema is the default schema to use
	Schema string

	// Snowflake-specific connection context
	Account   string
	Warehouse string
	Role      string

	// Options contains additional driver-specific options
	Options map[string]string

	// Params holds adapter-specific configuration (e.g., DuckDB extensions)
	Params map[string]any
}

// Column represents a column in a warehouse table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// Metadata holds metadata about a warehouse table.
type Metadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter defines the interface that all warehouse adapters must implement.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows (e.g., CREATE, INSERT).
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// ListColumns returns the ordered column names of a relation.
	// The relation may be a table name or a parenthesized subquery.
	ListColumns(ctx context.Context, relation string) ([]string, error)

	// GetTableMetadata retrieves metadata for a specified table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// Dialect returns the SQL dialect for this adapter. It is used to
	// quote literals and fold identifier case in generated statements.
	Dialect() *dialect.Dialect
}
