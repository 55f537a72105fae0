package catalog

import (
	"context"

	"treelink/internal/domain/models/catalog"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a folder
	Create(ctx context.Context, folder *catalog.Folder) error

	// Update writes name, materialized path and attributes. The parent is
	// never changed by an update.
	Update(ctx context.Context, folder *catalog.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*catalog.Folder, error)

	// GetByCode retrieves the oldest folder with the code in a structure
	GetByCode(ctx context.Context, structureID, code string) (*catalog.Folder, error)

	// ListByStructure returns every folder of a structure (flat list)
	ListByStructure(ctx context.Context, structureID string) ([]catalog.Folder, error)

	// Count returns the total and root-level folder counts of a structure
	Count(ctx context.Context, structureID string) (total int, roots int, err error)

	// Search matches name or code case-insensitively
	Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.FolderHit, error)
}
