package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"treelink/internal/domain"
	"treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
)

// StructureRepository implements the StructureRepository interface on SQLite
type StructureRepository struct {
	db *gorm.DB
}

// NewStructureRepository creates a new structure repository
func NewStructureRepository(config *RepositoryConfig) catalogRepo.StructureRepository {
	return &StructureRepository{db: config.DB}
}

func (r *StructureRepository) Create(ctx context.Context, s *catalog.Structure) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}

	m := StructureModel{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		IsActive:    s.IsActive,
		ContentHash: s.ContentHash,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		if isUniqueViolation(err) && s.ContentHash != nil {
			conflict := &domain.ConflictError{
				Message:      "structure with identical content already exists",
				ResourceType: "structure",
			}
			if existing, getErr := r.GetByContentHash(ctx, *s.ContentHash); getErr == nil {
				conflict.ResourceID = existing.ID
			}
			return conflict
		}
		return fmt.Errorf("create structure: %w", err)
	}

	return nil
}

func (r *StructureRepository) GetByID(ctx context.Context, id string) (*catalog.Structure, error) {
	var m StructureModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFound("structure", id)
		}
		return nil, fmt.Errorf("get structure: %w", err)
	}

	s := structureFromModel(m)
	return &s, nil
}

func (r *StructureRepository) GetByContentHash(ctx context.Context, hash string) (*catalog.Structure, error) {
	var m StructureModel
	if err := conn(ctx, r.db).Where("content_hash = ?", hash).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFound("structure", hash)
		}
		return nil, fmt.Errorf("get structure by hash: %w", err)
	}

	s := structureFromModel(m)
	return &s, nil
}

func (r *StructureRepository) List(ctx context.Context, activeOnly bool) ([]catalog.Structure, error) {
	q := conn(ctx, r.db).Model(&StructureModel{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	rows := make([]StructureModel, 0)
	if err := q.Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list structures: %w", err)
	}

	result := make([]catalog.Structure, 0, len(rows))
	for _, m := range rows {
		result = append(result, structureFromModel(m))
	}
	return result, nil
}

func (r *StructureRepository) Update(ctx context.Context, s *catalog.Structure) error {
	res := conn(ctx, r.db).Model(&StructureModel{}).Where("id = ?", s.ID).Updates(map[string]any{
		"name":        s.Name,
		"description": s.Description,
		"is_active":   s.IsActive,
		"updated_at":  s.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update structure: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFound("structure", s.ID)
	}
	return nil
}

func (r *StructureRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&StructureModel{})
	if res.Error != nil {
		return fmt.Errorf("delete structure: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFound("structure", id)
	}
	return nil
}
