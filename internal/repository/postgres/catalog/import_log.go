package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	models "treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	"treelink/internal/repository/postgres"
)

// PostgresImportLogRepository implements the ImportLogRepository interface
type PostgresImportLogRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewImportLogRepository creates a new import log repository
func NewImportLogRepository(config *postgres.RepositoryConfig) catalogRepo.ImportLogRepository {
	return &PostgresImportLogRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Append inserts an audit record
func (r *PostgresImportLogRepository) Append(ctx context.Context, entry *models.ImportLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, operation_type, filename, message, items_processed, user_id, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.ImportLogs)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		entry.ID,
		string(entry.Operation),
		entry.Filename,
		entry.Message,
		entry.ItemsProcessed,
		entry.UserID,
		entry.PerformedAt,
	)
	if err != nil {
		return fmt.Errorf("append import log: %w", err)
	}

	return nil
}

// Recent returns the latest entries, newest first
func (r *PostgresImportLogRepository) Recent(ctx context.Context, limit int) ([]models.ImportLog, error) {
	query := fmt.Sprintf(`
		SELECT id, operation_type, filename, message, items_processed, user_id, performed_at
		FROM %s
		ORDER BY performed_at DESC, id
		LIMIT $1
	`, r.tables.ImportLogs)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list import logs: %w", err)
	}
	defer rows.Close()

	entries := []models.ImportLog{}
	for rows.Next() {
		var e models.ImportLog
		var op string
		if err := rows.Scan(&e.ID, &op, &e.Filename, &e.Message, &e.ItemsProcessed, &e.UserID, &e.PerformedAt); err != nil {
			return nil, fmt.Errorf("scan import log: %w", err)
		}
		e.Operation = models.ImportOperation(op)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import logs: %w", err)
	}

	return entries, nil
}
