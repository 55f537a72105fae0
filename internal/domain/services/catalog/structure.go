package catalog

import (
	"context"

	"treelink/internal/domain/models/catalog"
)

// ImportStructureRequest carries one uploaded structure file
type ImportStructureRequest struct {
	Filename string
	Content  []byte
	UserID   *string // Attributed actor, nil when anonymous
}

// ImportStructureResult describes the outcome of a structure upload.
// Duplicate is set when identical bytes were imported before; nothing is
// written in that case.
type ImportStructureResult struct {
	Duplicate     bool   `json:"duplicate"`
	StructureID   string `json:"structure_id"`
	StructureName string `json:"structure_name"`
	FoldersCount  int    `json:"folders_processed"`
	Filename      string `json:"filename"`
	Message       string `json:"message"`
}

// OptionalDescription tracks tri-state semantics for description updates.
// Transport-agnostic - handler maps from httputil.OptionalString.
//   - Present=false: leave unchanged
//   - Present=true, Value=nil: clear
//   - Present=true, Value=&"text": set
type OptionalDescription struct {
	Present bool
	Value   *string
}

// UpdateStructureRequest is a partial update; nil fields are left unchanged
type UpdateStructureRequest struct {
	Name        *string
	Description OptionalDescription
	IsActive    *bool
}

// ImportService turns uploaded XML into stored structures and folder trees
type ImportService interface {
	// ImportStructure hashes, parses and stores a structure file in one
	// transaction. Re-uploading identical bytes returns a duplicate result.
	ImportStructure(ctx context.Context, req *ImportStructureRequest) (*ImportStructureResult, error)
}

// StructureService defines read and maintenance operations on structures
type StructureService interface {
	// ListStructures returns structures newest first
	ListStructures(ctx context.Context, includeInactive bool) ([]catalog.Structure, error)

	// GetStructure returns a structure with its folder counts
	GetStructure(ctx context.Context, id string) (*catalog.Structure, error)

	// UpdateStructure applies a partial update
	UpdateStructure(ctx context.Context, id string, req *UpdateStructureRequest) (*catalog.Structure, error)

	// DeleteStructure removes a structure with its folders and attachments
	DeleteStructure(ctx context.Context, id string, userID *string) (*catalog.Structure, error)
}

// TreeService builds nested folder trees
type TreeService interface {
	GetFolderTree(ctx context.Context, structureID string) (*catalog.FolderTree, error)
}

// ConsistencyService runs the read-only consistency diagnostic
type ConsistencyService interface {
	// Check inspects every folder of a structure and records a VALIDATE entry
	Check(ctx context.Context, structureID string, userID *string) (*catalog.ConsistencyReport, error)
}
