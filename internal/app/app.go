// Package app wires configuration, storage backends and services together
// for the server and the command line tools.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"

	"treelink/internal/config"
	"treelink/internal/domain/repositories"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/migrations"
	"treelink/internal/repository/postgres"
	postgresCatalog "treelink/internal/repository/postgres/catalog"
	"treelink/internal/repository/sqlite"
	catalogService "treelink/internal/service/catalog"
	"treelink/internal/storage"
	"treelink/internal/xmlparse"
)

// Repositories are the store implementations for the selected backend
type Repositories struct {
	Tx         repositories.TransactionManager
	Structures catalogRepo.StructureRepository
	Folders    catalogRepo.FolderRepository
	Documents  catalogRepo.DocumentRepository
	Logs       catalogRepo.ImportLogRepository
}

// Services are the catalog services built on the repositories
type Services struct {
	Import      catalogSvc.ImportService
	Structures  catalogSvc.StructureService
	Trees       catalogSvc.TreeService
	Consistency catalogSvc.ConsistencyService
	Documents   catalogSvc.DocumentService
	Search      catalogSvc.SearchService
}

// App holds an opened backend and everything built on it
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Files    *storage.FileStore
	Repos    Repositories
	Services Services

	driver  string
	sqlDB   *sql.DB
	closers []func()
}

// Open connects to the configured database and builds the services. The
// schema is not touched; call Migrate for that.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
		Files:  storage.NewDiskStore(cfg.StorageRoot),
		driver: cfg.DatabaseDriver,
	}

	var err error
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		err = a.openPostgres(ctx, cfg)
	case config.DriverSQLite:
		err = a.openSQLite(cfg)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Services = NewServices(a.Repos, a.Files, cfg.Limits, logger)

	logger.Info("backend opened",
		"driver", cfg.DatabaseDriver,
		"storage_root", cfg.StorageRoot,
	)

	return a, nil
}

func (a *App) openPostgres(ctx context.Context, cfg *config.Config) error {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	a.sqlDB = stdlib.OpenDBFromPool(pool)
	a.closers = append(a.closers, func() { a.sqlDB.Close() })

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(),
		Logger: a.Logger,
	}
	a.Repos = Repositories{
		Tx:         postgres.NewTransactionManager(pool, a.Logger),
		Structures: postgresCatalog.NewStructureRepository(repoConfig),
		Folders:    postgresCatalog.NewFolderRepository(repoConfig),
		Documents:  postgresCatalog.NewDocumentRepository(repoConfig),
		Logs:       postgresCatalog.NewImportLogRepository(repoConfig),
	}
	return nil
}

func (a *App) openSQLite(cfg *config.Config) error {
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}

	a.sqlDB, err = db.DB()
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() { a.sqlDB.Close() })

	repoConfig := &sqlite.RepositoryConfig{DB: db, Logger: a.Logger}
	a.Repos = Repositories{
		Tx:         sqlite.NewTransactionManager(db),
		Structures: sqlite.NewStructureRepository(repoConfig),
		Folders:    sqlite.NewFolderRepository(repoConfig),
		Documents:  sqlite.NewDocumentRepository(repoConfig),
		Logs:       sqlite.NewImportLogRepository(repoConfig),
	}
	return nil
}

// NewServices builds every catalog service on top of repos
func NewServices(repos Repositories, files *storage.FileStore, limits config.Limits, logger *slog.Logger) Services {
	parser := xmlparse.NewParser()

	return Services{
		Import:      catalogService.NewImportService(repos.Tx, repos.Structures, repos.Folders, repos.Logs, files, parser, logger),
		Structures:  catalogService.NewStructureService(repos.Tx, repos.Structures, repos.Folders, repos.Logs, logger),
		Trees:       catalogService.NewTreeService(repos.Structures, repos.Folders, logger),
		Consistency: catalogService.NewConsistencyService(repos.Structures, repos.Folders, repos.Logs, logger),
		Documents:   catalogService.NewDocumentService(repos.Tx, repos.Structures, repos.Folders, repos.Documents, repos.Logs, files, parser, logger),
		Search:      catalogService.NewSearchService(repos.Folders, repos.Documents, limits.FolderSearchLimit, limits.DocumentSearchLimit, logger),
	}
}

// Driver returns the migrations driver name of the open backend
func (a *App) Driver() string {
	if a.driver == config.DriverSQLite {
		return migrations.DriverSQLite
	}
	return migrations.DriverPostgres
}

// DB exposes the database/sql handle used for migrations
func (a *App) DB() *sql.DB {
	return a.sqlDB
}

// Migrate applies pending migrations
func (a *App) Migrate(ctx context.Context) error {
	migrations.SetLogger(a.Logger)
	return migrations.Up(ctx, a.sqlDB, a.Driver())
}

// DropAll drops every table including the migration bookkeeping. Both
// backends share table names.
func (a *App) DropAll(ctx context.Context) error {
	cascade := ""
	if a.driver == config.DriverPostgres {
		cascade = " CASCADE"
	}

	tables := append(postgres.NewTableNames().All(), "goose_db_version")
	for _, table := range tables {
		if _, err := a.sqlDB.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+cascade); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}

	a.Logger.Warn("all tables dropped", "driver", a.driver, "tables", len(tables))
	return nil
}

// Close releases the database handles in reverse order of opening
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
