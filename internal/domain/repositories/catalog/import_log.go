package catalog

import (
	"context"

	"treelink/internal/domain/models/catalog"
)

// ImportLogRepository appends and reads audit records
type ImportLogRepository interface {
	Append(ctx context.Context, entry *catalog.ImportLog) error

	// Recent returns the latest entries, newest first
	Recent(ctx context.Context, limit int) ([]catalog.ImportLog, error)
}
