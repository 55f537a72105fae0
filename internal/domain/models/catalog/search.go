package catalog

import "time"

// Default search limits
const (
	FolderSearchLimit   = 50
	DocumentSearchLimit = 100
)

// SearchFilter narrows a search over folders and documents
type SearchFilter struct {
	// Query is a case-insensitive substring matched on code and name
	// (and metadata text for documents). Empty = no text filter.
	Query string

	// StructureID limits folders to one structure and documents to those
	// attached to any folder of that structure
	StructureID *string

	// FolderID limits documents to those attached to the folder
	FolderID *string

	// Hash limits documents to an exact content digest
	Hash *string

	Limit int
}

// FolderHit is a folder search result
type FolderHit struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	MaterializedPath string `json:"materialized_path"`
	StructureID      string `json:"structure_id"`
	StructureName    string `json:"structure_name"`
}

// DocumentHit is a document search result
type DocumentHit struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	FileSize  int64     `json:"file_size"`
	FileHash  string    `json:"file_hash"`
	CreatedAt time.Time `json:"created_at"`
}
