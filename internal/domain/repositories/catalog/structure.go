package catalog

import (
	"context"

	"treelink/internal/domain/models/catalog"
)

// StructureRepository defines data access operations for structures
type StructureRepository interface {
	// Create inserts a structure. A second structure with the same content
	// hash fails with a *domain.ConflictError.
	Create(ctx context.Context, structure *catalog.Structure) error

	// GetByID retrieves a structure by ID
	GetByID(ctx context.Context, id string) (*catalog.Structure, error)

	// GetByContentHash retrieves the structure imported from identical bytes
	GetByContentHash(ctx context.Context, hash string) (*catalog.Structure, error)

	// List returns structures newest first, optionally only active ones
	List(ctx context.Context, activeOnly bool) ([]catalog.Structure, error)

	// Update writes name, description and is_active
	Update(ctx context.Context, structure *catalog.Structure) error

	// Delete removes a structure; folders and their attachments cascade
	Delete(ctx context.Context, id string) error
}
