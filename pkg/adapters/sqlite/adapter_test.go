package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/primebrains/sqltools/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  core.AdapterConfig
		want string
	}{
		{
			name: "empty path",
			want: ":memory:",
		},
		{
			name: "file path",
			cfg:  core.AdapterConfig{Path: "data/app.db"},
			want: "data/app.db",
		},
		{
			name: "pragmas in key order",
			cfg: core.AdapterConfig{
				Path: "app.db",
				Options: map[string]string{
					"journal_mode": "wal",
					"foreign_keys": "1",
				},
			},
			want: "app.db?_pragma=foreign_keys%281%29&_pragma=journal_mode%28wal%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestAdapter_InMemory(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{}))
	defer func() { _ = adp.Close() }()

	require.NoError(t, adp.Exec(ctx, "CREATE TABLE t (id INTEGER, label TEXT)"))
	require.NoError(t, adp.Exec(ctx, "INSERT INTO t VALUES (1, 'one'), (2, NULL)"))

	rs, err := adp.Query(ctx, "SELECT id, label FROM t ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label"}, rs.Columns)
	assert.Equal(t, [][]string{{"1", "one"}, {"2", ""}}, rs.Records())
}

func TestAdapter_FileWithPragma(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{
		Path:    path,
		Options: map[string]string{"foreign_keys": "1"},
	}))
	defer func() { _ = adp.Close() }()

	rs, err := adp.Query(ctx, "PRAGMA foreign_keys")
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "1", rs.Rows[0][0].String)
}

func TestAdapter_NoColumns(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	rs, err := adp.Query(ctx, "CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)
	assert.False(t, rs.HasColumns())
}

func TestAdapter_Name(t *testing.T) {
	assert.Equal(t, "sqlite", New(nil).Name())
}
