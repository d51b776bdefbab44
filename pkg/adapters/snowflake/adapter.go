// Package snowflake provides a Snowflake warehouse adapter for pivotsql.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sf "github.com/snowflakedb/gosnowflake"

	"github.com/leapstack-labs/pivotsql/pkg/adapter"
	"github.com/leapstack-labs/pivotsql/pkg/dialect"
)

// Adapter implements the adapter.Adapter interface for Snowflake.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new Snowflake adapter instance.
func New(logger *slog.Logger) *Adapter {
	a := &Adapter{}
	a.Logger = logger
	return a
}

// Dialect returns the Snowflake SQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return dialect.Snowflake
}

// buildDSN constructs a Snowflake connection string from the adapter config.
// Authentication and session context (database, schema, warehouse, role) are
// all encoded in the DSN; the driver handles the rest.
func buildDSN(cfg adapter.Config) (string, error) {
	if cfg.Account == "" {
		return "", fmt.Errorf("snowflake account is required")
	}
	if cfg.Username == "" {
		return "", fmt.Errorf("snowflake user is required")
	}

	sc := &sf.Config{
		Account:   cfg.Account,
		User:      cfg.Username,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
		Host:      cfg.Host,
		Port:      cfg.Port,
		Params:    map[string]*string{},
	}

	for key, value := range cfg.Options {
		v := value
		sc.Params[key] = &v
	}

	dsn, err := sf.DSN(sc)
	if err != nil {
		return "", fmt.Errorf("failed to build snowflake DSN: %w", err)
	}
	return dsn, nil
}

// Connect establishes a connection to Snowflake.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return err
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping snowflake: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	return nil
}

// GetTableMetadata retrieves metadata for a specified table using Snowflake's
// information_schema.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.GetTableMetadataCommon(ctx, table, dialect.Snowflake)
}

// Ensure Adapter implements the adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
