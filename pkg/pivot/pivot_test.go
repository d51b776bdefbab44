package pivot

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pivotsql/pkg/adapter"
	"github.com/leapstack-labs/pivotsql/pkg/dialect"
)

// newMockExecutor returns a BaseSQLAdapter backed by sqlmock with exact
// statement matching, so tests can assert the generated SQL verbatim.
func newMockExecutor(t *testing.T) (*adapter.BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &adapter.BaseSQLAdapter{DB: db}, mock
}

func distinctRows(values ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"category"})
	for _, v := range values {
		rows.AddRow(v)
	}
	return rows
}

func TestRun_ExampleScenario(t *testing.T) {
	db, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT DISTINCT category FROM sales").
		WillReturnRows(distinctRows("a", "b", "c"))
	mock.ExpectQuery("SELECT * FROM sales LIMIT 0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "amount"}))
	mock.ExpectExec("CREATE OR REPLACE TABLE sales_pivot AS SELECT * FROM sales " +
		"PIVOT (max(amount) FOR category IN ('a', 'b', 'c')) AS p (id, a_v, b_v, c_v)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	g := New(db, dialect.Snowflake, nil)
	mapping, err := g.Run(context.Background(), Request{
		Source:      "sales",
		Aggregate:   "max",
		ValueColumn: "category",
		PivotColumn: "amount",
		Destination: "sales_pivot",
		Suffix:      "_v",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, mapping.Entries, 3)
	assert.Equal(t, []string{"a", "b", "c"}, mapping.Values())
	assert.Equal(t, []string{"a_v", "b_v", "c_v"}, mapping.Columns())

	col, ok := mapping.Column("b")
	require.True(t, ok)
	assert.Equal(t, "b_v", col)

	_, ok = mapping.Column("z")
	assert.False(t, ok)

	assert.Equal(t, Entry{Value: "a", Literal: "'a'", Column: "a_v"}, mapping.Entries[0])
}

func TestRun_CaseNormalization(t *testing.T) {
	// Mixed-case column arguments must produce the same SQL as lowercase ones.
	db, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT DISTINCT category FROM sales").
		WillReturnRows(distinctRows("a"))
	mock.ExpectQuery("SELECT * FROM sales LIMIT 0").
		WillReturnRows(sqlmock.NewRows([]string{"ID", "Category", "Amount"}))
	mock.ExpectExec("CREATE OR REPLACE TABLE sales_pivot AS SELECT * FROM sales " +
		"PIVOT (sum(amount) FOR category IN ('a')) AS p (id, a)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	g := New(db, dialect.Snowflake, nil)
	mapping, err := g.Run(context.Background(), Request{
		Source:      "sales",
		Aggregate:   "sum",
		ValueColumn: "Category",
		PivotColumn: "AMOUNT",
		Destination: "sales_pivot",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"a"}, mapping.Columns(), "empty suffix keeps values verbatim")
}

func TestRun_EmbeddedQuoteIsEscaped(t *testing.T) {
	// A distinct value containing a single quote must produce a valid
	// doubled-quote literal, not malformed SQL.
	db, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT DISTINCT surname FROM people").
		WillReturnRows(distinctRows("O'Brien"))
	mock.ExpectQuery("SELECT * FROM people LIMIT 0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "surname", "score"}))
	mock.ExpectExec("CREATE OR REPLACE TABLE people_pivot AS SELECT * FROM people " +
		`PIVOT (max(score) FOR surname IN ('O''Brien')) AS p (id, "O'Brien")`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	g := New(db, dialect.Snowflake, nil)
	mapping, err := g.Run(context.Background(), Request{
		Source:      "people",
		Aggregate:   "max",
		ValueColumn: "surname",
		PivotColumn: "score",
		Destination: "people_pivot",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "'O''Brien'", mapping.Entries[0].Literal)
}

func TestRun_SubquerySource(t *testing.T) {
	db, mock := newMockExecutor(t)

	source := "(SELECT * FROM sales WHERE region = 'west')"
	mock.ExpectQuery("SELECT DISTINCT category FROM " + source).
		WillReturnRows(distinctRows("a"))
	mock.ExpectQuery("SELECT * FROM " + source + " LIMIT 0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "amount"}))
	mock.ExpectExec("CREATE OR REPLACE TABLE out AS SELECT * FROM " + source +
		" PIVOT (sum(amount) FOR category IN ('a')) AS p (id, a)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	g := New(db, dialect.Snowflake, nil)
	_, err := g.Run(context.Background(), Request{
		Source:      source,
		Aggregate:   "sum",
		ValueColumn: "category",
		PivotColumn: "amount",
		Destination: "out",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_SortValues(t *testing.T) {
	db, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT DISTINCT category FROM sales").
		WillReturnRows(distinctRows("c", "a", "b"))
	mock.ExpectQuery("SELECT * FROM sales LIMIT 0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "amount"}))
	mock.ExpectExec("CREATE OR REPLACE TABLE out AS SELECT * FROM sales " +
		"PIVOT (sum(amount) FOR category IN ('a', 'b', 'c')) AS p (id, a, b, c)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	g := New(db, dialect.Snowflake, nil)
	mapping, err := g.Run(context.Background(), Request{
		Source:      "sales",
		Aggregate:   "sum",
		ValueColumn: "category",
		PivotColumn: "amount",
		Destination: "out",
		SortValues:  true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"a", "b", "c"}, mapping.Values())
}

func TestRun_SkipsNullAndFormatsNonStrings(t *testing.T) {
	db, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT DISTINCT code FROM readings").
		WillReturnRows(distinctRows(nil, int64(9), []byte("10")))
	mock.ExpectQuery("SELECT * FROM readings LIMIT 0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "value"}))
	mock.ExpectExec("CREATE OR REPLACE TABLE out AS SELECT * FROM readings " +
		`PIVOT (avg(value) FOR code IN ('9', '10')) AS p (id, "9_flag", "10_flag")`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	g := New(db, dialect.Snowflake, nil)
	mapping, err := g.Run(context.Background(), Request{
		Source:      "readings",
		Aggregate:   "avg",
		ValueColumn: "code",
		PivotColumn: "value",
		Destination: "out",
		Suffix:      "_flag",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"9", "10"}, mapping.Values(), "NULL distinct values are skipped")
}

func TestRun_NoDistinctValues(t *testing.T) {
	db, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT DISTINCT category FROM empty_table").
		WillReturnRows(distinctRows())

	g := New(db, dialect.Snowflake, nil)
	_, err := g.Run(context.Background(), Request{
		Source:      "empty_table",
		Aggregate:   "sum",
		ValueColumn: "category",
		PivotColumn: "amount",
		Destination: "out",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no distinct values")
	require.NoError(t, mock.ExpectationsWereMet(), "nothing must execute after discovery fails")
}

func TestRun_ErrorsPropagate(t *testing.T) {
	t.Run("distinct query fails", func(t *testing.T) {
		db, mock := newMockExecutor(t)
		mock.ExpectQuery("SELECT DISTINCT category FROM missing").
			WillReturnError(assert.AnError)

		g := New(db, dialect.Snowflake, nil)
		_, err := g.Run(context.Background(), Request{
			Source: "missing", Aggregate: "sum",
			ValueColumn: "category", PivotColumn: "amount", Destination: "out",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list distinct values")
	})

	t.Run("introspection fails", func(t *testing.T) {
		db, mock := newMockExecutor(t)
		mock.ExpectQuery("SELECT DISTINCT category FROM sales").
			WillReturnRows(distinctRows("a"))
		mock.ExpectQuery("SELECT * FROM sales LIMIT 0").
			WillReturnError(assert.AnError)

		g := New(db, dialect.Snowflake, nil)
		_, err := g.Run(context.Background(), Request{
			Source: "sales", Aggregate: "sum",
			ValueColumn: "category", PivotColumn: "amount", Destination: "out",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to introspect sales")
	})

	t.Run("create fails", func(t *testing.T) {
		db, mock := newMockExecutor(t)
		mock.ExpectQuery("SELECT DISTINCT category FROM sales").
			WillReturnRows(distinctRows("a"))
		mock.ExpectQuery("SELECT * FROM sales LIMIT 0").
			WillReturnRows(sqlmock.NewRows([]string{"id", "category", "amount"}))
		mock.ExpectExec("CREATE OR REPLACE TABLE out AS SELECT * FROM sales " +
			"PIVOT (sum(amount) FOR category IN ('a')) AS p (id, a)").
			WillReturnError(assert.AnError)

		g := New(db, dialect.Snowflake, nil)
		_, err := g.Run(context.Background(), Request{
			Source: "sales", Aggregate: "sum",
			ValueColumn: "category", PivotColumn: "amount", Destination: "out",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create pivot table out")
	})
}

func TestRequestValidate(t *testing.T) {
	valid := Request{
		Source: "sales", Aggregate: "sum",
		ValueColumn: "category", PivotColumn: "amount", Destination: "out",
	}

	tests := []struct {
		name   string
		mutate func(*Request)
		errMsg string
	}{
		{name: "missing source", mutate: func(r *Request) { r.Source = "" }, errMsg: "source relation is required"},
		{name: "missing aggregate", mutate: func(r *Request) { r.Aggregate = "" }, errMsg: "aggregate function is required"},
		{name: "missing value column", mutate: func(r *Request) { r.ValueColumn = "" }, errMsg: "value column is required"},
		{name: "missing pivot column", mutate: func(r *Request) { r.PivotColumn = "" }, errMsg: "pivot column is required"},
		{name: "missing destination", mutate: func(r *Request) { r.Destination = "" }, errMsg: "destination table is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			db, _ := newMockExecutor(t)
			g := New(db, dialect.Snowflake, nil)
			_, err := g.Run(context.Background(), req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
