package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
)

// ImportLogRepository implements the ImportLogRepository interface on SQLite
type ImportLogRepository struct {
	db *gorm.DB
}

// NewImportLogRepository creates a new import log repository
func NewImportLogRepository(config *RepositoryConfig) catalogRepo.ImportLogRepository {
	return &ImportLogRepository{db: config.DB}
}

func (r *ImportLogRepository) Append(ctx context.Context, entry *catalog.ImportLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now().UTC()
	}

	m := ImportLogModel{
		ID:             entry.ID,
		OperationType:  string(entry.Operation),
		Filename:       entry.Filename,
		Message:        entry.Message,
		ItemsProcessed: entry.ItemsProcessed,
		UserID:         entry.UserID,
		PerformedAt:    entry.PerformedAt,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return fmt.Errorf("append import log: %w", err)
	}
	return nil
}

func (r *ImportLogRepository) Recent(ctx context.Context, limit int) ([]catalog.ImportLog, error) {
	rows := make([]ImportLogModel, 0)
	if err := conn(ctx, r.db).Order("performed_at DESC, id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list import logs: %w", err)
	}

	result := make([]catalog.ImportLog, 0, len(rows))
	for _, m := range rows {
		result = append(result, catalog.ImportLog{
			ID:             m.ID,
			Operation:      catalog.ImportOperation(m.OperationType),
			Filename:       m.Filename,
			Message:        m.Message,
			ItemsProcessed: m.ItemsProcessed,
			UserID:         m.UserID,
			PerformedAt:    m.PerformedAt,
		})
	}
	return result, nil
}
