package pivot

// Entry describes how one distinct value of the value column was turned
// into a destination column.
type Entry struct {
	// Value is the distinct value as returned by the warehouse
	Value string

	// Literal is the escaped single-quoted form used in the PIVOT IN-list
	Literal string

	// Column is the destination column name (value plus optional suffix)
	Column string
}

// Mapping is the value→column lookup returned by a pivot run. Callers use
// it to learn the destination table's pivoted column names without
// re-deriving them from the warehouse.
type Mapping struct {
	Entries []Entry
}

// Values returns the distinct values in mapping order.
func (m *Mapping) Values() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Value
	}
	return out
}

// Columns returns the destination column names in mapping order.
func (m *Mapping) Columns() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Column
	}
	return out
}

// Column returns the destination column for a distinct value.
func (m *Mapping) Column(value string) (string, bool) {
	for _, e := range m.Entries {
		if e.Value == value {
			return e.Column, true
		}
	}
	return "", false
}
