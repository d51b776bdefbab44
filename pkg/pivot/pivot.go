// Package pivot generates and executes dynamic PIVOT statements.
//
// Given a source relation, an aggregate function, a value column (whose
// distinct values become new columns), a pivot column (the column being
// aggregated), and a destination table, the generator assembles and runs a
// single CREATE OR REPLACE TABLE ... AS SELECT ... PIVOT statement and
// returns a mapping describing the value→column renaming it applied.
package pivot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/pivotsql/pkg/adapter"
	"github.com/leapstack-labs/pivotsql/pkg/dialect"
)

// Executor is the subset of the adapter interface the generator needs.
// The connection is caller-owned: the generator never opens or closes it,
// and assumes exclusive use for the duration of a run.
type Executor interface {
	Exec(ctx context.Context, sql string) error
	Query(ctx context.Context, sql string) (*adapter.Rows, error)
	ListColumns(ctx context.Context, relation string) ([]string, error)
}

// Request describes one pivot run.
type Request struct {
	// Source is the relation to pivot: a table name (optionally
	// schema-qualified) or a parenthesized query. Treated as literal SQL
	// text, never parsed.
	Source string

	// Aggregate is the aggregate function applied to the pivot column
	// (e.g., "sum", "max", "min").
	Aggregate string

	// ValueColumn is the column whose distinct values become new columns.
	ValueColumn string

	// PivotColumn is the column being aggregated.
	PivotColumn string

	// Destination is the table to create or replace with the pivoted result.
	Destination string

	// Suffix is appended to each distinct value when forming destination
	// column names. Empty means the value is used as-is.
	Suffix string

	// SortValues sorts the distinct values alphabetically before building
	// the column list. By default the warehouse-returned order is kept,
	// which may differ between runs.
	SortValues bool
}

func (r Request) validate() error {
	switch {
	case r.Source == "":
		return fmt.Errorf("source relation is required")
	case r.Aggregate == "":
		return fmt.Errorf("aggregate function is required")
	case r.ValueColumn == "":
		return fmt.Errorf("value column is required")
	case r.PivotColumn == "":
		return fmt.Errorf("pivot column is required")
	case r.Destination == "":
		return fmt.Errorf("destination table is required")
	}
	return nil
}

// Generator builds and executes pivot statements against one warehouse
// connection.
type Generator struct {
	db      Executor
	dialect *dialect.Dialect
	logger  *slog.Logger
}

// New creates a Generator. A nil logger discards debug output.
func New(db Executor, d *dialect.Dialect, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{db: db, dialect: d, logger: logger}
}

// Run executes a pivot: it discovers the distinct values of the value
// column, introspects the source relation's columns, assembles the PIVOT
// statement, and executes it. The destination table is created or replaced
// as a durable side effect; the returned Mapping has one entry per distinct
// value.
//
// The three statements run sequentially with no transaction. The first two
// are read-only, so a failure in the final CREATE leaves the destination
// table untouched.
func (g *Generator) Run(ctx context.Context, req Request) (*Mapping, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	valueCol := g.dialect.FoldCase(req.ValueColumn)
	pivotCol := g.dialect.FoldCase(req.PivotColumn)

	mapping, err := g.discoverValues(ctx, req.Source, valueCol, req.Suffix)
	if err != nil {
		return nil, err
	}
	if len(mapping.Entries) == 0 {
		return nil, fmt.Errorf("no distinct values of %s in %s to pivot on", valueCol, req.Source)
	}
	if req.SortValues {
		sort.Slice(mapping.Entries, func(i, j int) bool {
			return mapping.Entries[i].Value < mapping.Entries[j].Value
		})
	}

	columns, err := g.db.ListColumns(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	stmt := g.buildStatement(req, valueCol, pivotCol, columns, mapping)

	g.logger.Debug("executing pivot",
		"source", req.Source,
		"destination", req.Destination,
		"values", len(mapping.Entries))

	if err := g.db.Exec(ctx, stmt); err != nil {
		return nil, fmt.Errorf("failed to create pivot table %s: %w", req.Destination, err)
	}

	return mapping, nil
}

// discoverValues runs SELECT DISTINCT over the value column and builds the
// mapping entries. NULL values are skipped: they cannot appear in a PIVOT
// IN-list or name a column.
func (g *Generator) discoverValues(ctx context.Context, source, valueCol, suffix string) (*Mapping, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s", valueCol, source)

	rows, err := g.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	mapping := &Mapping{}
	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		if raw == nil {
			continue
		}
		value := formatValue(raw)
		mapping.Entries = append(mapping.Entries, Entry{
			Value:   value,
			Literal: g.dialect.QuoteLiteral(value),
			Column:  value + suffix,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distinct values: %w", err)
	}

	return mapping, nil
}

// buildStatement assembles the CREATE OR REPLACE TABLE ... PIVOT statement.
// The destination column order is: passthrough columns from the source
// schema (minus the value and pivot columns, in original order) followed by
// the mapped columns in mapping order.
func (g *Generator) buildStatement(req Request, valueCol, pivotCol string, sourceColumns []string, mapping *Mapping) string {
	var outCols []string
	for _, col := range sourceColumns {
		folded := g.dialect.FoldCase(col)
		if folded == valueCol || folded == pivotCol {
			continue
		}
		outCols = append(outCols, g.dialect.MaybeQuoteIdent(folded))
	}

	literals := make([]string, len(mapping.Entries))
	for i, e := range mapping.Entries {
		literals[i] = e.Literal
		outCols = append(outCols, g.dialect.MaybeQuoteIdent(e.Column))
	}

	return fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM %s PIVOT (%s(%s) FOR %s IN (%s)) AS p (%s)",
		req.Destination,
		req.Source,
		req.Aggregate,
		pivotCol,
		valueCol,
		strings.Join(literals, ", "),
		strings.Join(outCols, ", "),
	)
}

// formatValue renders a scanned distinct value as text.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return fmt.Sprintf("%v", v)
}
