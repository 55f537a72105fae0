package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
)

func TestSearch_FoldersAndDocuments(t *testing.T) {
	env := newTestEnv(t)
	structure := env.importCompany(t)
	_, err := uploadReport(t, env, structure.StructureID, nil)
	require.NoError(t, err)

	result, err := env.search.Search(context.Background(), &catalogSvc.SearchRequest{Query: "RE"})
	require.NoError(t, err)

	codes := []string{}
	for _, f := range result.Folders {
		codes = append(codes, f.Code)
		assert.Equal(t, "Company", f.StructureName)
	}
	assert.ElementsMatch(t, []string{"F1", "RES"}, codes)

	require.Len(t, result.Documents, 1)
	assert.Equal(t, "DOC-1", result.Documents[0].Code)
	assert.Equal(t, 3, result.Count)
}

func TestSearch_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	structure := env.importCompany(t)
	uploaded, err := uploadReport(t, env, structure.StructureID, nil)
	require.NoError(t, err)

	hr := env.folderByCode(t, structure.StructureID, "HR")
	hash := uploaded.Document.FileHash
	wrongHash := "0000"

	tests := []struct {
		name string
		req  *catalogSvc.SearchRequest
		want int
	}{
		{name: "metadata text", req: &catalogSvc.SearchRequest{Query: "ivanov"}, want: 1},
		{name: "by hash", req: &catalogSvc.SearchRequest{Hash: &hash}, want: 1},
		{name: "by other hash", req: &catalogSvc.SearchRequest{Hash: &wrongHash}, want: 0},
		{name: "by attached folder", req: &catalogSvc.SearchRequest{FolderID: &uploaded.Folder.ID}, want: 1},
		{name: "by empty folder", req: &catalogSvc.SearchRequest{FolderID: &hr.ID}, want: 0},
		{name: "by structure", req: &catalogSvc.SearchRequest{StructureID: &structure.StructureID}, want: 1},
		{name: "wildcards are literal", req: &catalogSvc.SearchRequest{Query: "%"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.search.Search(ctx, tt.req)
			require.NoError(t, err)
			assert.Len(t, result.Documents, tt.want)
		})
	}
}

func TestSearch_RequiresQueryOrFilter(t *testing.T) {
	env := newTestEnv(t)
	blank := "  "
	bad := "nope"

	_, err := env.search.Search(context.Background(), &catalogSvc.SearchRequest{Query: " ", Hash: &blank})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = env.search.Search(context.Background(), &catalogSvc.SearchRequest{StructureID: &bad})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	result, err := env.search.SearchDocuments(context.Background(), &catalogSvc.SearchRequest{})
	require.NoError(t, err)
	assert.Empty(t, result.Documents)
}

// seedManyMatches imports folderCount folders and uploads documentCount
// documents whose names all contain "match"
func seedManyMatches(t *testing.T, env *testEnv, folderCount, documentCount int) {
	t.Helper()
	ctx := context.Background()

	var b strings.Builder
	b.WriteString(`<structure name="Bulk">`)
	for i := 0; i < folderCount; i++ {
		fmt.Fprintf(&b, `<folder name="Match %d" code="M%d"/>`, i, i)
	}
	b.WriteString(`</structure>`)

	imported, err := env.importer.ImportStructure(ctx, &catalogSvc.ImportStructureRequest{
		Filename: "bulk.xml",
		Content:  []byte(b.String()),
	})
	require.NoError(t, err)
	require.Equal(t, folderCount, imported.FoldersCount)

	for i := 0; i < documentCount; i++ {
		doc := fmt.Sprintf(`<document><header><doc_number>MATCH-%d</doc_number><title>Match doc %d</title></header>`+
			`<metadata><folder_code>M0</folder_code></metadata></document>`, i, i)
		_, err := env.document.Upload(ctx, &catalogSvc.UploadDocumentRequest{
			StructureID: imported.StructureID,
			Filename:    fmt.Sprintf("match-%d.xml", i),
			Content:     []byte(doc),
		})
		require.NoError(t, err)
	}
}

func TestSearch_ResultCaps(t *testing.T) {
	env := newTestEnv(t)
	seedManyMatches(t, env, 60, 105)

	tests := []struct {
		name          string
		folderLimit   int
		documentLimit int
		wantFolders   int
		wantDocuments int
	}{
		{name: "defaults", wantFolders: models.FolderSearchLimit, wantDocuments: models.DocumentSearchLimit},
		{name: "configured below caps", folderLimit: 5, documentLimit: 7, wantFolders: 5, wantDocuments: 7},
		{name: "configured above caps", folderLimit: 500, documentLimit: 500, wantFolders: 50, wantDocuments: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSearchService(env.folders, env.documents, tt.folderLimit, tt.documentLimit, slog.New(slog.NewTextHandler(io.Discard, nil)))

			result, err := svc.Search(context.Background(), &catalogSvc.SearchRequest{Query: "match"})
			require.NoError(t, err)
			assert.Len(t, result.Folders, tt.wantFolders)
			assert.Len(t, result.Documents, tt.wantDocuments)
			assert.Equal(t, tt.wantFolders+tt.wantDocuments, result.Count)

			docsOnly, err := svc.SearchDocuments(context.Background(), &catalogSvc.SearchRequest{Query: "match"})
			require.NoError(t, err)
			assert.Len(t, docsOnly.Documents, tt.wantDocuments)
			assert.Empty(t, docsOnly.Folders)
		})
	}
}
