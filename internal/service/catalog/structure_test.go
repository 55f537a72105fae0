package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
)

func TestUpdateStructure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	imported := env.importCompany(t)

	name := "  Renamed  "
	inactive := false
	updated, err := env.structure.UpdateStructure(ctx, imported.StructureID, &catalogSvc.UpdateStructureRequest{
		Name:        &name,
		Description: catalogSvc.OptionalDescription{Present: true, Value: nil},
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Nil(t, updated.Description)
	assert.False(t, updated.IsActive)

	active, err := env.structure.ListStructures(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := env.structure.ListStructures(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Renamed", all[0].Name)
}

func TestUpdateStructure_Validation(t *testing.T) {
	env := newTestEnv(t)
	imported := env.importCompany(t)

	blank := "   "
	long := strings.Repeat("n", 256)

	for _, name := range []*string{&blank, &long} {
		_, err := env.structure.UpdateStructure(context.Background(), imported.StructureID, &catalogSvc.UpdateStructureRequest{Name: name})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	}
}

func TestDeleteStructure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	imported := env.importCompany(t)
	uploaded, err := uploadReport(t, env, imported.StructureID, nil)
	require.NoError(t, err)

	deleted, err := env.structure.DeleteStructure(ctx, imported.StructureID, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, deleted.TotalFolders)

	_, err = env.structure.GetStructure(ctx, imported.StructureID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = env.document.ListByFolder(ctx, uploaded.Folder.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	details, err := env.document.GetDocument(ctx, uploaded.Document.ID)
	require.NoError(t, err)
	assert.Empty(t, details.Folders, "associations cascade with the folders")

	logs, err := env.logs.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OperationDelete, logs[0].Operation)

	_, err = env.structure.DeleteStructure(ctx, imported.StructureID, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
