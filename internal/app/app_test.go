package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelink/internal/config"
	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/migrations"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Environment:    "test",
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     filepath.Join(dir, "app.db"),
		StorageRoot:    filepath.Join(dir, "media"),
		Limits: config.Limits{
			MaxUploadBytes:      1 << 20,
			FolderSearchLimit:   10,
			DocumentSearchLimit: 10,
		},
	}
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := Open(ctx, testConfig(t), logger)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, migrations.DriverSQLite, a.Driver())
	require.NoError(t, a.Migrate(ctx))

	version, err := migrations.Version(ctx, a.DB(), a.Driver())
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	result, err := a.Services.Import.ImportStructure(ctx, &catalogSvc.ImportStructureRequest{
		Filename: "s.xml",
		Content:  []byte(`<structure name="S"><folder name="A" code="A"/></structure>`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FoldersCount)

	require.NoError(t, a.DropAll(ctx))
	_, err = a.Services.Structures.ListStructures(ctx, true)
	assert.Error(t, err, "tables are gone")

	require.NoError(t, a.Migrate(ctx))
	list, err := a.Services.Structures.ListStructures(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDriver = "oracle"

	_, err := Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
