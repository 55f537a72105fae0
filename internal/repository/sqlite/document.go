package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"treelink/internal/domain"
	"treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	"treelink/internal/utils"
)

// DocumentRepository implements the DocumentRepository interface on SQLite
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) catalogRepo.DocumentRepository {
	return &DocumentRepository{db: config.DB}
}

func (r *DocumentRepository) Create(ctx context.Context, d *catalog.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	if d.Metadata == nil {
		d.Metadata = map[string]string{}
	}

	m := DocumentModel{
		ID:             d.ID,
		Code:           d.Code,
		Name:           d.Name,
		Metadata:       toJSONMap(d.Metadata),
		SourceFilename: d.SourceFilename,
		StoragePath:    d.StoragePath,
		FileSize:       d.FileSize,
		FileHash:       d.FileHash,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			conflict := &domain.ConflictError{
				Message:      fmt.Sprintf("document with code '%s' already exists", d.Code),
				ResourceType: "document",
			}
			if existing, getErr := r.GetByCode(ctx, d.Code); getErr == nil {
				conflict.ResourceID = existing.ID
			}
			return conflict
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

func (r *DocumentRepository) Update(ctx context.Context, d *catalog.Document) error {
	if d.Metadata == nil {
		d.Metadata = map[string]string{}
	}

	res := conn(ctx, r.db).Model(&DocumentModel{}).Where("id = ?", d.ID).Updates(map[string]any{
		"name":            d.Name,
		"metadata":        toJSONMap(d.Metadata),
		"source_filename": d.SourceFilename,
		"storage_path":    d.StoragePath,
		"file_size":       d.FileSize,
		"file_hash":       d.FileHash,
		"updated_at":      d.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFound("document", d.ID)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*catalog.Document, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *DocumentRepository) GetByCode(ctx context.Context, code string) (*catalog.Document, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *DocumentRepository) first(ctx context.Context, cond string, value string) (*catalog.Document, error) {
	var m DocumentModel
	if err := conn(ctx, r.db).Where(cond, value).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFound("document", value)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	d := documentFromModel(m)
	return &d, nil
}

func (r *DocumentRepository) FindDuplicates(ctx context.Context, code, hash string) ([]catalog.Document, error) {
	rows := make([]DocumentModel, 0)
	err := conn(ctx, r.db).
		Where("code = ? OR file_hash = ?", code, hash).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find duplicate documents: %w", err)
	}

	result := make([]catalog.Document, 0, len(rows))
	for _, m := range rows {
		result = append(result, documentFromModel(m))
	}
	return result, nil
}

func (r *DocumentRepository) Attach(ctx context.Context, folderID, documentID string) (bool, error) {
	m := FolderDocumentModel{FolderID: folderID, DocumentID: documentID, CreatedAt: time.Now().UTC()}

	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return false, domain.NewNotFound("folder", folderID)
		}
		return false, fmt.Errorf("attach document: %w", res.Error)
	}

	return res.RowsAffected == 1, nil
}

// documentFolderRow is the scan target of the document folders join
type documentFolderRow struct {
	ID            string
	Code          string
	Name          string
	StructureID   string
	StructureName string
	AttachedAt    time.Time
}

func (r *DocumentRepository) ListFolders(ctx context.Context, documentID string) ([]catalog.DocumentFolder, error) {
	rows := make([]documentFolderRow, 0)
	err := conn(ctx, r.db).
		Table("folder_documents AS fd").
		Select("f.id AS id, f.code AS code, f.name AS name, f.structure_id AS structure_id, s.name AS structure_name, fd.created_at AS attached_at").
		Joins("JOIN folders AS f ON f.id = fd.folder_id").
		Joins("JOIN structures AS s ON s.id = f.structure_id").
		Where("fd.document_id = ?", documentID).
		Order("fd.created_at, f.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list document folders: %w", err)
	}

	result := make([]catalog.DocumentFolder, 0, len(rows))
	for _, row := range rows {
		result = append(result, catalog.DocumentFolder(row))
	}
	return result, nil
}

func (r *DocumentRepository) ListByFolder(ctx context.Context, folderID string) ([]catalog.AttachedDocument, error) {
	links := make([]FolderDocumentModel, 0)
	err := conn(ctx, r.db).
		Where("folder_id = ?", folderID).
		Order("created_at, document_id").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list folder documents: %w", err)
	}
	if len(links) == 0 {
		return []catalog.AttachedDocument{}, nil
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.DocumentID)
	}

	docs := make([]DocumentModel, 0, len(ids))
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("load folder documents: %w", err)
	}
	byID := make(map[string]DocumentModel, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	result := make([]catalog.AttachedDocument, 0, len(links))
	for _, link := range links {
		d, ok := byID[link.DocumentID]
		if !ok {
			continue
		}
		result = append(result, catalog.AttachedDocument{
			Document:   documentFromModel(d),
			AttachedAt: link.CreatedAt,
		})
	}
	return result, nil
}

// Search matches code, name or metadata text. SQLite folds case for ASCII
// letters only.
func (r *DocumentRepository) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.DocumentHit, error) {
	limit := filter.Limit
	if limit <= 0 || limit > catalog.DocumentSearchLimit {
		limit = catalog.DocumentSearchLimit
	}

	q := conn(ctx, r.db).Model(&DocumentModel{})
	if filter.Query != "" {
		p := strings.ToLower(utils.ContainsPattern(filter.Query))
		q = q.Where(`(LOWER(code) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\' OR LOWER(metadata) LIKE ? ESCAPE '\')`, p, p, p)
	}
	if filter.Hash != nil {
		q = q.Where("file_hash = ?", *filter.Hash)
	}
	if filter.FolderID != nil {
		q = q.Where("id IN (?)", conn(ctx, r.db).
			Model(&FolderDocumentModel{}).
			Select("document_id").
			Where("folder_id = ?", *filter.FolderID))
	}
	if filter.StructureID != nil {
		q = q.Where("id IN (?)", conn(ctx, r.db).
			Table("folder_documents AS fd").
			Select("fd.document_id").
			Joins("JOIN folders AS f ON f.id = fd.folder_id").
			Where("f.structure_id = ?", *filter.StructureID))
	}

	rows := make([]DocumentModel, 0)
	if err := q.Order("created_at DESC, id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	hits := make([]catalog.DocumentHit, 0, len(rows))
	for _, m := range rows {
		hits = append(hits, catalog.DocumentHit{
			ID:        m.ID,
			Code:      m.Code,
			Name:      m.Name,
			FileSize:  m.FileSize,
			FileHash:  m.FileHash,
			CreatedAt: m.CreatedAt,
		})
	}
	return hits, nil
}
