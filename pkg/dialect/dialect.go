// Package dialect provides SQL dialect quoting and case-folding rules.
// This package is pure Go with no database driver dependencies, so it can
// be used by statement builders and tests without opening a connection.
package dialect

import (
	"fmt"
	"strings"
)

// Fold is the identifier case-fold policy applied to column names before
// they are used in generated SQL. Warehouses differ here: Snowflake folds
// unquoted identifiers to uppercase, DuckDB to lowercase, and quoted
// identifiers are case-sensitive everywhere.
type Fold int

const (
	// FoldLower folds names to lowercase.
	FoldLower Fold = iota

	// FoldUpper folds names to uppercase.
	FoldUpper

	// FoldNone leaves names untouched.
	FoldNone
)

// ParseFold converts a config string ("lower", "upper", "none") to a Fold.
func ParseFold(s string) (Fold, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lower":
		return FoldLower, nil
	case "upper":
		return FoldUpper, nil
	case "none":
		return FoldNone, nil
	}
	return FoldNone, fmt.Errorf("unknown case-fold policy %q (want lower, upper, or none)", s)
}

// Dialect holds the quoting and folding rules for one SQL dialect.
// This is pure data - safe to share and copy.
type Dialect struct {
	// Name is the dialect name (e.g., "snowflake", "duckdb")
	Name string

	// DefaultSchema is the schema assumed for unqualified table names
	DefaultSchema string

	// QuoteStart and QuoteEnd delimit quoted identifiers
	QuoteStart string
	QuoteEnd   string

	// IdentEscape is the sequence that escapes QuoteEnd inside an identifier
	IdentEscape string

	// Fold is the case-fold policy for unquoted column names
	Fold Fold
}

// Snowflake is the Snowflake SQL dialect.
// The fold policy is lower rather than Snowflake's native uppercase: column
// names flow into generated statements unquoted, where the warehouse folds
// them itself, and lowercase keeps the returned mapping stable for callers.
var Snowflake = &Dialect{
	Name:          "snowflake",
	DefaultSchema: "PUBLIC",
	QuoteStart:    `"`,
	QuoteEnd:      `"`,
	IdentEscape:   `""`,
	Fold:          FoldLower,
}

// DuckDB is the DuckDB SQL dialect.
var DuckDB = &Dialect{
	Name:          "duckdb",
	DefaultSchema: "main",
	QuoteStart:    `"`,
	QuoteEnd:      `"`,
	IdentEscape:   `""`,
	Fold:          FoldLower,
}

var registry = map[string]*Dialect{
	"snowflake": Snowflake,
	"duckdb":    DuckDB,
}

// Get retrieves a dialect by name.
func Get(name string) (*Dialect, bool) {
	d, ok := registry[strings.ToLower(name)]
	return d, ok
}

// WithFold returns a copy of the dialect with a different case-fold policy.
func (d *Dialect) WithFold(f Fold) *Dialect {
	cp := *d
	cp.Fold = f
	return &cp
}

// FoldCase applies the dialect's case-fold policy to a name.
func (d *Dialect) FoldCase(name string) string {
	switch d.Fold {
	case FoldLower:
		return strings.ToLower(name)
	case FoldUpper:
		return strings.ToUpper(name)
	}
	return name
}

// QuoteLiteral wraps a value in single quotes, doubling any embedded
// single quote. Values like O'Brien become 'O''Brien' instead of
// breaking the statement.
func (d *Dialect) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// QuoteIdent wraps a name in the dialect's identifier quotes, escaping any
// embedded quote characters.
func (d *Dialect) QuoteIdent(name string) string {
	return d.QuoteStart + strings.ReplaceAll(name, d.QuoteEnd, d.IdentEscape) + d.QuoteEnd
}

// MaybeQuoteIdent quotes a name only when it is not a plain identifier.
// Plain identifiers pass through unchanged so generated SQL stays readable
// and the warehouse applies its own folding.
func (d *Dialect) MaybeQuoteIdent(name string) string {
	if isPlainIdent(name) {
		return name
	}
	return d.QuoteIdent(name)
}

// isPlainIdent reports whether a name consists of letters, digits, and
// underscores, and does not start with a digit.
func isPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
