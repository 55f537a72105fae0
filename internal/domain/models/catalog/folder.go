package catalog

import (
	"time"
)

// Folder is a node of a structure's tree
type Folder struct {
	ID               string            `json:"id" db:"id"`
	StructureID      string            `json:"structure_id" db:"structure_id"`
	Code             string            `json:"code" db:"code"`
	Name             string            `json:"name" db:"name"`
	ParentID         *string           `json:"parent_id" db:"parent_id"` // NULL = root level
	MaterializedPath string            `json:"materialized_path" db:"materialized_path"`
	Attributes       map[string]string `json:"attributes" db:"attributes"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the folder sits at the top of its structure
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// ExpectedPath derives the materialized path of a folder with the given code
// placed under parent (nil = root).
func ExpectedPath(parent *Folder, code string) string {
	if parent == nil {
		return "/" + code + "/"
	}
	return parent.MaterializedPath + code + "/"
}
