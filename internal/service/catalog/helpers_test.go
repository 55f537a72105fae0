package catalog

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	models "treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/repository/sqlite"
	"treelink/internal/storage"
	"treelink/internal/xmlparse"
)

const companyXML = `<?xml version="1.0" encoding="UTF-8"?>
<structure name="Company">
  <folder name="Finance" code="FIN">
    <folder name="Reports" code="F1">
      <attribute name="owner">Anna</attribute>
    </folder>
    <group>
      <folder name="Reserve" code="RES"/>
    </group>
  </folder>
  <folders>
    <folder name="HR" code="HR"/>
  </folders>
  <folder name="HR" code="HR"/>
</structure>`

const reportXML = `<?xml version="1.0" encoding="UTF-8"?>
<document>
  <header>
    <doc_number>DOC-1</doc_number>
    <title>Report</title>
  </header>
  <metadata>
    <folder_code>F1</folder_code>
    <author>Ivanov</author>
  </metadata>
</document>`

type testEnv struct {
	structures catalogRepo.StructureRepository
	folders    catalogRepo.FolderRepository
	documents  catalogRepo.DocumentRepository
	logs       catalogRepo.ImportLogRepository
	files      *storage.FileStore

	importer    catalogSvc.ImportService
	structure   catalogSvc.StructureService
	tree        catalogSvc.TreeService
	consistency catalogSvc.ConsistencyService
	document    catalogSvc.DocumentService
	search      catalogSvc.SearchService
}

// newTestEnv wires every service against a fresh SQLite file and an
// in-memory file store
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "treelink_test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &sqlite.RepositoryConfig{DB: db, Logger: logger}
	tx := sqlite.NewTransactionManager(db)

	env := &testEnv{
		structures: sqlite.NewStructureRepository(cfg),
		folders:    sqlite.NewFolderRepository(cfg),
		documents:  sqlite.NewDocumentRepository(cfg),
		logs:       sqlite.NewImportLogRepository(cfg),
		files:      storage.NewMemoryStore(),
	}
	parser := xmlparse.NewParser()

	env.importer = NewImportService(tx, env.structures, env.folders, env.logs, env.files, parser, logger)
	env.structure = NewStructureService(tx, env.structures, env.folders, env.logs, logger)
	env.tree = NewTreeService(env.structures, env.folders, logger)
	env.consistency = NewConsistencyService(env.structures, env.folders, env.logs, logger)
	env.document = NewDocumentService(tx, env.structures, env.folders, env.documents, env.logs, env.files, parser, logger)
	env.search = NewSearchService(env.folders, env.documents, 0, 0, logger)

	return env
}

func (e *testEnv) importCompany(t *testing.T) *catalogSvc.ImportStructureResult {
	t.Helper()
	result, err := e.importer.ImportStructure(context.Background(), &catalogSvc.ImportStructureRequest{
		Filename: "company.xml",
		Content:  []byte(companyXML),
	})
	require.NoError(t, err)
	require.False(t, result.Duplicate)
	return result
}

func (e *testEnv) folderByCode(t *testing.T, structureID, code string) *models.Folder {
	t.Helper()
	f, err := e.folders.GetByCode(context.Background(), structureID, code)
	require.NoError(t, err)
	return f
}
