package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the catalog table names
type TableNames struct {
	Structures      string
	Folders         string
	Documents       string
	FolderDocuments string
	ImportLogs      string
}

// NewTableNames returns the table names created by the migrations
func NewTableNames() *TableNames {
	return &TableNames{
		Structures:      "structures",
		Folders:         "folders",
		Documents:       "documents",
		FolderDocuments: "folder_documents",
		ImportLogs:      "import_logs",
	}
}

// All lists every table, children before parents
func (t *TableNames) All() []string {
	return []string{t.FolderDocuments, t.Documents, t.Folders, t.Structures, t.ImportLogs}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Port 6543 (a PgBouncer transaction pooler) does not support prepared
// statements, so the pool switches to QueryExecModeCacheDescribe there unless
// default_query_exec_mode was set in the connection string. Cache-describe
// keeps the extended protocol, which JSONB encoding of maps needs.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there
// is none, so repositories join an ongoing transaction automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx := GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
