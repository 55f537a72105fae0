package catalog

import (
	"time"
)

type Document struct {
	ID             string            `json:"id" db:"id"`
	Code           string            `json:"code" db:"code"`
	Name           string            `json:"name" db:"name"`
	Metadata       map[string]string `json:"metadata" db:"metadata"`
	SourceFilename string            `json:"xml_filename" db:"source_filename"`
	StoragePath    string            `json:"file_path" db:"storage_path"`
	FileSize       int64             `json:"file_size" db:"file_size"`
	FileHash       string            `json:"file_hash" db:"file_hash"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// FolderDocument links a document to a folder
type FolderDocument struct {
	FolderID   string    `json:"folder_id" db:"folder_id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	CreatedAt  time.Time `json:"attached_at" db:"created_at"`
}

// DocumentFolder is a folder a document is attached to, with its structure
type DocumentFolder struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	StructureID   string    `json:"structure_id"`
	StructureName string    `json:"structure_name"`
	AttachedAt    time.Time `json:"attached_at"`
}

// AttachedDocument is a document listed from a folder, with its attachment time
type AttachedDocument struct {
	Document
	AttachedAt time.Time `json:"attached_at"`
}
