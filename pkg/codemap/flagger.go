package codemap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/pivotsql/pkg/dialect"
)

// Executor is the subset of the adapter interface the flagger needs. The
// connection is caller-owned and assumed exclusive for the duration of a run.
type Executor interface {
	Exec(ctx context.Context, sql string) error
}

// Request describes one flagging run.
type Request struct {
	// Source is the table holding the codes to flag. Needs to include
	// database and schema when the connection has no default context.
	Source string

	// CodeColumn is the source column matched against the codelist
	CodeColumn string

	// CodeTypeColumn is the source column distinguishing code revisions
	CodeTypeColumn string

	// Destination is the table created from the mapping; any existing
	// table of that name is replaced
	Destination string

	// Extra is an optional additional WHERE fragment, starting with "AND".
	// Useful to limit the source to specific dates.
	Extra string
}

func (r Request) validate() error {
	switch {
	case r.Source == "":
		return fmt.Errorf("source table is required")
	case r.CodeColumn == "":
		return fmt.Errorf("code column is required")
	case r.CodeTypeColumn == "":
		return fmt.Errorf("code type column is required")
	case r.Destination == "":
		return fmt.Errorf("destination table is required")
	}
	if r.Extra != "" && !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(r.Extra)), "AND") {
		return fmt.Errorf("extra where clause must start with AND")
	}
	return nil
}

// Flagger applies a codelist to a warehouse table: it rebuilds the
// destination with the source's shape plus map_code, map_code_type, and
// map_descr columns, then inserts every source row matching a codelist
// regex group or range.
type Flagger struct {
	db      Executor
	dialect *dialect.Dialect
	logger  *slog.Logger
}

// New creates a Flagger. A nil logger discards debug output.
func New(db Executor, d *dialect.Dialect, logger *slog.Logger) *Flagger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Flagger{db: db, dialect: d, logger: logger}
}

// Run executes the flagging statements sequentially with no transaction:
// one CREATE, one ALTER, then one INSERT per regex group and per range.
// Earlier inserts stay in place when a later one fails.
func (f *Flagger) Run(ctx context.Context, list *Codelist, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}
	if list == nil || len(list.Entries) == 0 {
		return fmt.Errorf("codelist has no usable entries")
	}

	codeCol := f.dialect.FoldCase(req.CodeColumn)
	typeCol := f.dialect.FoldCase(req.CodeTypeColumn)

	extra := ""
	if req.Extra != "" {
		extra = " " + strings.TrimSpace(req.Extra)
	}

	create := fmt.Sprintf("CREATE OR REPLACE TABLE %s LIKE %s", req.Destination, req.Source)
	if err := f.db.Exec(ctx, create); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", req.Destination, err)
	}

	alter := fmt.Sprintf(
		"ALTER TABLE %s ADD (map_code varchar, map_code_type varchar, map_descr varchar)",
		req.Destination)
	if err := f.db.Exec(ctx, alter); err != nil {
		return fmt.Errorf("failed to add mapping columns to %s: %w", req.Destination, err)
	}

	groups := list.RegexGroups()
	ranges := list.Ranges()
	f.logger.Debug("flagging codes",
		"source", req.Source,
		"destination", req.Destination,
		"regex_groups", len(groups),
		"ranges", len(ranges))

	for _, g := range groups {
		insert := fmt.Sprintf(
			"INSERT INTO %s SELECT *, %s AS map_code, %s AS map_code_type, %s AS map_descr FROM %s WHERE %s REGEXP (%s) AND contains(%s, %s)%s",
			req.Destination,
			f.dialect.QuoteLiteral(g.Pattern),
			f.dialect.QuoteLiteral(g.CodeType),
			f.dialect.QuoteLiteral(g.Descr),
			req.Source,
			codeCol,
			f.dialect.QuoteLiteral(g.Pattern),
			typeCol,
			f.dialect.QuoteLiteral(g.CodeType),
			extra,
		)
		if err := f.db.Exec(ctx, insert); err != nil {
			return fmt.Errorf("failed to flag codes for %q: %w", g.Descr, err)
		}
	}

	for _, r := range ranges {
		insert := fmt.Sprintf(
			"INSERT INTO %s SELECT *, %s AS map_code, %s AS map_code_type, %s AS map_descr FROM %s WHERE %s BETWEEN %s AND %s AND contains(%s, %s)%s",
			req.Destination,
			f.dialect.QuoteLiteral(r.Code),
			f.dialect.QuoteLiteral(r.CodeType),
			f.dialect.QuoteLiteral(r.Descr),
			req.Source,
			codeCol,
			f.dialect.QuoteLiteral(r.Low),
			f.dialect.QuoteLiteral(r.High),
			typeCol,
			f.dialect.QuoteLiteral(r.CodeType),
			extra,
		)
		if err := f.db.Exec(ctx, insert); err != nil {
			return fmt.Errorf("failed to flag range %s: %w", r.Code, err)
		}
	}

	return nil
}
