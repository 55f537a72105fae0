package migrations

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpDownReset(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, Up(ctx, db, DriverSQLite))
	version, err := Version(ctx, db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	require.NoError(t, Down(ctx, db, DriverSQLite))
	version, err = Version(ctx, db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	require.NoError(t, Reset(ctx, db, DriverSQLite))
	version, err = Version(ctx, db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestSetLogger(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	require.NoError(t, Up(ctx, db, DriverSQLite))
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "component=migrations")
	assert.Contains(t, out, "00001_create_structures_folders.sql")

	buf.Reset()
	SetLogger(nil)
	require.NoError(t, Down(ctx, db, DriverSQLite))
	assert.Empty(t, buf.String())
}

func TestUnsupportedDriver(t *testing.T) {
	err := Up(context.Background(), openSQLite(t), "oracle")
	assert.ErrorContains(t, err, "unsupported database driver")
}
