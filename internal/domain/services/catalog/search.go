package catalog

import (
	"context"

	"treelink/internal/domain/models/catalog"
)

// SearchRequest is a combined folder and document search
type SearchRequest struct {
	Query       string
	StructureID *string
	FolderID    *string
	Hash        *string
}

// SearchResult holds both hit lists. Folders are only searched when a
// query string is given.
type SearchResult struct {
	Query     string                `json:"query"`
	Folders   []catalog.FolderHit   `json:"folders,omitempty"`
	Documents []catalog.DocumentHit `json:"documents"`
	Count     int                   `json:"count"`
}

// SearchService searches folders and documents
type SearchService interface {
	Search(ctx context.Context, req *SearchRequest) (*SearchResult, error)

	// SearchDocuments searches documents only; an empty request lists the newest
	SearchDocuments(ctx context.Context, req *SearchRequest) (*SearchResult, error)
}
