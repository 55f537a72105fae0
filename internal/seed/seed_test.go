package seed

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelink/internal/app"
	"treelink/internal/config"
)

func openTestApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Environment:    "test",
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     filepath.Join(dir, "seed.db"),
		StorageRoot:    filepath.Join(dir, "media"),
		Limits:         config.Limits{MaxUploadBytes: 1 << 20},
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NoError(t, a.Migrate(ctx))
	return a
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	a := openTestApp(t)
	seeder := NewSeeder(a.Services.Import, a.Services.Documents, a.Logger)

	first, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, first.StructureExisted)
	assert.Equal(t, "Sample Company", first.StructureName)
	assert.Equal(t, 7, first.FoldersCount)
	assert.Equal(t, "INV-2024-001", first.DocumentCode)
	assert.False(t, first.DocumentDuplicate)
	assert.NotEmpty(t, first.DocumentID)

	tree, err := a.Services.Trees.GetFolderTree(ctx, first.StructureID)
	require.NoError(t, err)
	require.Len(t, tree.Tree, 3)
	assert.Equal(t, []string{"FIN", "HR", "archive"}, []string{tree.Tree[0].Code, tree.Tree[1].Code, tree.Tree[2].Code})

	report, err := a.Services.Consistency.Check(ctx, first.StructureID, nil)
	require.NoError(t, err)
	assert.True(t, report.IsConsistent, report.Issues)

	second, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, second.StructureExisted)
	assert.Equal(t, first.StructureID, second.StructureID)
	assert.True(t, second.DocumentDuplicate)
	assert.Equal(t, first.DocumentID, second.DocumentID)
}
