package catalog

import (
	"context"

	"treelink/internal/domain/models/catalog"
)

// DocumentRepository defines data access operations for documents and their
// folder attachments
type DocumentRepository interface {
	// Create inserts a document. Codes are unique.
	Create(ctx context.Context, doc *catalog.Document) error

	// Update overwrites name, metadata, stored file and digest
	Update(ctx context.Context, doc *catalog.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*catalog.Document, error)

	// GetByCode retrieves a document by its code
	GetByCode(ctx context.Context, code string) (*catalog.Document, error)

	// FindDuplicates returns documents sharing the code or the digest
	FindDuplicates(ctx context.Context, code, hash string) ([]catalog.Document, error)

	// Attach links a document to a folder if not linked yet.
	// Returns true when a new link was created.
	Attach(ctx context.Context, folderID, documentID string) (bool, error)

	// ListFolders returns the folders a document is attached to
	ListFolders(ctx context.Context, documentID string) ([]catalog.DocumentFolder, error)

	// ListByFolder returns the documents attached to a folder
	ListByFolder(ctx context.Context, folderID string) ([]catalog.AttachedDocument, error)

	// Search matches code, name or metadata text and applies the filters,
	// newest first
	Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.DocumentHit, error)
}
