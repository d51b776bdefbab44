package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		expected  *Params
		expectErr bool
	}{
		{
			name:     "nil params",
			raw:      nil,
			expected: &Params{},
		},
		{
			name: "extensions and settings",
			raw: map[string]any{
				"extensions": []string{"httpfs", "json"},
				"settings":   map[string]string{"memory_limit": "4GB"},
			},
			expected: &Params{
				Extensions: []string{"httpfs", "json"},
				Settings:   map[string]string{"memory_limit": "4GB"},
			},
		},
		{
			name: "yaml-shaped any values",
			raw: map[string]any{
				"extensions": []any{"httpfs"},
				"settings":   map[string]any{"threads": "4"},
			},
			expected: &Params{
				Extensions: []string{"httpfs"},
				Settings:   map[string]string{"threads": "4"},
			},
		},
		{
			name:      "wrong shape",
			raw:       map[string]any{"extensions": map[string]any{"bad": true}},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseParams(tt.raw)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid duckdb params")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestAdapter_Dialect(t *testing.T) {
	a := New(nil)
	assert.Equal(t, "duckdb", a.Dialect().Name)
}

func TestAdapter_NotConnected(t *testing.T) {
	a := New(nil)

	err := a.Exec(t.Context(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")

	_, err = a.ListColumns(t.Context(), "sales")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}
