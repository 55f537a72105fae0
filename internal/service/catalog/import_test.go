package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
)

func TestImportStructure_BuildsTree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importCompany(t)
	assert.Equal(t, "Company", result.StructureName)
	assert.Equal(t, 4, result.FoldersCount, "HR is reachable twice but stored once")

	fin := env.folderByCode(t, result.StructureID, "FIN")
	assert.Nil(t, fin.ParentID)
	assert.Equal(t, "/FIN/", fin.MaterializedPath)

	reports := env.folderByCode(t, result.StructureID, "F1")
	require.NotNil(t, reports.ParentID)
	assert.Equal(t, fin.ID, *reports.ParentID)
	assert.Equal(t, "/FIN/F1/", reports.MaterializedPath)
	assert.Equal(t, map[string]string{"owner": "Anna"}, reports.Attributes)

	reserve := env.folderByCode(t, result.StructureID, "RES")
	assert.Equal(t, "/FIN/RES/", reserve.MaterializedPath)

	structure, err := env.structure.GetStructure(ctx, result.StructureID)
	require.NoError(t, err)
	assert.Equal(t, 4, structure.TotalFolders)
	assert.Equal(t, 2, structure.RootFolders)
	require.NotNil(t, structure.Description)
	assert.Equal(t, "Imported from company.xml", *structure.Description)
	require.NotNil(t, structure.ContentHash)

	logs, err := env.logs.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.OperationStructureImport, logs[0].Operation)
	assert.Equal(t, 4, logs[0].ItemsProcessed)
}

func TestImportStructure_FreshTreeIsConsistent(t *testing.T) {
	env := newTestEnv(t)
	result := env.importCompany(t)

	report, err := env.consistency.Check(context.Background(), result.StructureID, nil)
	require.NoError(t, err)
	assert.True(t, report.IsConsistent, "issues: %v", report.Issues)
	assert.Equal(t, 0, report.IssuesFound)
	assert.Equal(t, 4, report.TotalFolders)
}

func TestImportStructure_DuplicateContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.importCompany(t)

	second, err := env.importer.ImportStructure(ctx, &catalogSvc.ImportStructureRequest{
		Filename: "copy.xml",
		Content:  []byte(companyXML),
	})
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.StructureID, second.StructureID)

	list, err := env.structure.ListStructures(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	logs, err := env.logs.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "a duplicate upload writes nothing")
}

func TestImportStructure_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "empty upload",
			content: "",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, domain.ErrValidation))
			},
		},
		{
			name:    "malformed xml",
			content: `<structure><folder name="A"></structure>`,
			check: func(t *testing.T, err error) {
				var malformed *domain.MalformedXMLError
				assert.True(t, errors.As(err, &malformed))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.importer.ImportStructure(context.Background(), &catalogSvc.ImportStructureRequest{
				Filename: "bad.xml",
				Content:  []byte(tt.content),
			})
			require.Error(t, err)
			tt.check(t, err)

			list, listErr := env.structure.ListStructures(context.Background(), true)
			require.NoError(t, listErr)
			assert.Empty(t, list)
		})
	}
}

func TestImportStructure_RollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	src := `<structure name="S"><folder name="A" code="A"/><folder name="` + string(long) + `" code="B"/></structure>`

	_, err := env.importer.ImportStructure(ctx, &catalogSvc.ImportStructureRequest{
		Filename: "long.xml",
		Content:  []byte(src),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	list, err := env.structure.ListStructures(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list, "folder A must not survive the failed import")
}
