package sqlite

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"treelink/internal/domain/models/catalog"
)

type StructureModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsActive    bool
	ContentHash *string `gorm:"uniqueIndex"`
}

func (StructureModel) TableName() string { return "structures" }

type FolderModel struct {
	ID               string `gorm:"primaryKey"`
	StructureID      string `gorm:"not null;index"`
	Code             string `gorm:"not null"`
	Name             string `gorm:"not null"`
	ParentID         *string
	MaterializedPath string            `gorm:"not null;index"`
	Attributes       datatypes.JSONMap `gorm:"type:text"`
	CreatedAt        time.Time
}

func (FolderModel) TableName() string { return "folders" }

type DocumentModel struct {
	ID             string            `gorm:"primaryKey"`
	Code           string            `gorm:"not null;uniqueIndex"`
	Name           string            `gorm:"not null"`
	Metadata       datatypes.JSONMap `gorm:"type:text"`
	SourceFilename string            `gorm:"not null"`
	StoragePath    string            `gorm:"not null"`
	FileSize       int64
	FileHash       string `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DocumentModel) TableName() string { return "documents" }

type FolderDocumentModel struct {
	FolderID   string `gorm:"primaryKey"`
	DocumentID string `gorm:"primaryKey"`
	CreatedAt  time.Time
}

func (FolderDocumentModel) TableName() string { return "folder_documents" }

type ImportLogModel struct {
	ID             string `gorm:"primaryKey"`
	OperationType  string `gorm:"not null"`
	Filename       string
	Message        string
	ItemsProcessed int
	UserID         *string
	PerformedAt    time.Time
}

func (ImportLogModel) TableName() string { return "import_logs" }

func toJSONMap(m map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func fromJSONMap(m datatypes.JSONMap) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

func structureFromModel(m StructureModel) catalog.Structure {
	return catalog.Structure{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		IsActive:    m.IsActive,
		ContentHash: m.ContentHash,
	}
}

func folderFromModel(m FolderModel) catalog.Folder {
	return catalog.Folder{
		ID:               m.ID,
		StructureID:      m.StructureID,
		Code:             m.Code,
		Name:             m.Name,
		ParentID:         m.ParentID,
		MaterializedPath: m.MaterializedPath,
		Attributes:       fromJSONMap(m.Attributes),
		CreatedAt:        m.CreatedAt,
	}
}

func documentFromModel(m DocumentModel) catalog.Document {
	return catalog.Document{
		ID:             m.ID,
		Code:           m.Code,
		Name:           m.Name,
		Metadata:       fromJSONMap(m.Metadata),
		SourceFilename: m.SourceFilename,
		StoragePath:    m.StoragePath,
		FileSize:       m.FileSize,
		FileHash:       m.FileHash,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
