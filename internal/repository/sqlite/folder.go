package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"treelink/internal/domain"
	"treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	"treelink/internal/utils"
)

// FolderRepository implements the FolderRepository interface on SQLite
type FolderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) catalogRepo.FolderRepository {
	return &FolderRepository{db: config.DB}
}

func (r *FolderRepository) Create(ctx context.Context, f *catalog.Folder) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if f.Attributes == nil {
		f.Attributes = map[string]string{}
	}

	m := FolderModel{
		ID:               f.ID,
		StructureID:      f.StructureID,
		Code:             f.Code,
		Name:             f.Name,
		ParentID:         f.ParentID,
		MaterializedPath: f.MaterializedPath,
		Attributes:       toJSONMap(f.Attributes),
		CreatedAt:        f.CreatedAt,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewNotFound("structure", f.StructureID)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

func (r *FolderRepository) Update(ctx context.Context, f *catalog.Folder) error {
	if f.Attributes == nil {
		f.Attributes = map[string]string{}
	}

	res := conn(ctx, r.db).Model(&FolderModel{}).Where("id = ?", f.ID).Updates(map[string]any{
		"name":              f.Name,
		"materialized_path": f.MaterializedPath,
		"attributes":        toJSONMap(f.Attributes),
	})
	if res.Error != nil {
		return fmt.Errorf("update folder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFound("folder", f.ID)
	}
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id string) (*catalog.Folder, error) {
	var m FolderModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFound("folder", id)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	f := folderFromModel(m)
	return &f, nil
}

func (r *FolderRepository) GetByCode(ctx context.Context, structureID, code string) (*catalog.Folder, error) {
	var m FolderModel
	err := conn(ctx, r.db).
		Where("structure_id = ? AND code = ?", structureID, code).
		Order("created_at, id").
		First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFound("folder", code)
		}
		return nil, fmt.Errorf("get folder by code: %w", err)
	}

	f := folderFromModel(m)
	return &f, nil
}

func (r *FolderRepository) ListByStructure(ctx context.Context, structureID string) ([]catalog.Folder, error) {
	rows := make([]FolderModel, 0)
	err := conn(ctx, r.db).
		Where("structure_id = ?", structureID).
		Order("materialized_path, code, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	result := make([]catalog.Folder, 0, len(rows))
	for _, m := range rows {
		result = append(result, folderFromModel(m))
	}
	return result, nil
}

func (r *FolderRepository) Count(ctx context.Context, structureID string) (int, int, error) {
	var total, roots int64
	if err := conn(ctx, r.db).Model(&FolderModel{}).Where("structure_id = ?", structureID).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count folders: %w", err)
	}
	if err := conn(ctx, r.db).Model(&FolderModel{}).Where("structure_id = ? AND parent_id IS NULL", structureID).Count(&roots).Error; err != nil {
		return 0, 0, fmt.Errorf("count root folders: %w", err)
	}
	return int(total), int(roots), nil
}

// folderHitRow is the scan target of the folder search join
type folderHitRow struct {
	ID               string
	Name             string
	Code             string
	MaterializedPath string
	StructureID      string
	StructureName    string
}

// Search matches name or code. SQLite folds case for ASCII letters only.
func (r *FolderRepository) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.FolderHit, error) {
	limit := filter.Limit
	if limit <= 0 || limit > catalog.FolderSearchLimit {
		limit = catalog.FolderSearchLimit
	}

	pattern := strings.ToLower(utils.ContainsPattern(filter.Query))
	q := conn(ctx, r.db).
		Table("folders AS f").
		Select("f.id AS id, f.name AS name, f.code AS code, f.materialized_path AS materialized_path, f.structure_id AS structure_id, s.name AS structure_name").
		Joins("JOIN structures AS s ON s.id = f.structure_id").
		Where(`(LOWER(f.name) LIKE ? ESCAPE '\' OR LOWER(f.code) LIKE ? ESCAPE '\')`, pattern, pattern)
	if filter.StructureID != nil {
		q = q.Where("f.structure_id = ?", *filter.StructureID)
	}

	rows := make([]folderHitRow, 0)
	if err := q.Order("s.name, f.materialized_path").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("search folders: %w", err)
	}

	hits := make([]catalog.FolderHit, 0, len(rows))
	for _, h := range rows {
		hits = append(hits, catalog.FolderHit(h))
	}
	return hits, nil
}
