package catalog

import (
	"time"
)

// Structure is the root of one imported folder hierarchy
type Structure struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	ContentHash *string   `json:"content_hash,omitempty" db:"content_hash"` // SHA-256 of the uploaded file, unique when set

	// Computed for the details view, not stored
	TotalFolders int `json:"total_folders,omitempty"`
	RootFolders  int `json:"root_folders,omitempty"`
}
