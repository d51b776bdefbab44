package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pivotsql/pkg/adapter"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name      string
		cfg       adapter.Config
		contains  []string
		expectErr bool
		errMsg    string
	}{
		{
			name: "full connection context",
			cfg: adapter.Config{
				Account:   "myorg-myaccount",
				Username:  "analyst",
				Password:  "secret",
				Database:  "ANALYTICS",
				Schema:    "PUBLIC",
				Warehouse: "COMPUTE_WH",
				Role:      "TRANSFORMER",
			},
			contains: []string{"analyst", "ANALYTICS", "PUBLIC", "COMPUTE_WH", "TRANSFORMER"},
		},
		{
			name: "driver options become params",
			cfg: adapter.Config{
				Account:  "myorg-myaccount",
				Username: "analyst",
				Password: "secret",
				Options:  map[string]string{"client_session_keep_alive": "true"},
			},
			contains: []string{"client_session_keep_alive"},
		},
		{
			name:      "missing account",
			cfg:       adapter.Config{Username: "analyst"},
			expectErr: true,
			errMsg:    "snowflake account is required",
		},
		{
			name:      "missing user",
			cfg:       adapter.Config{Account: "myorg-myaccount"},
			expectErr: true,
			errMsg:    "snowflake user is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := buildDSN(tt.cfg)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			for _, part := range tt.contains {
				assert.Contains(t, dsn, part)
			}
		})
	}
}

func TestAdapter_Dialect(t *testing.T) {
	a := New(nil)
	assert.Equal(t, "snowflake", a.Dialect().Name)
}

func TestAdapter_NotConnected(t *testing.T) {
	a := New(nil)

	err := a.Exec(t.Context(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")

	_, err = a.Query(t.Context(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")

	_, err = a.GetTableMetadata(t.Context(), "sales")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}
