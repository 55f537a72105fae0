package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"treelink/internal/config"
	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	"treelink/internal/domain/repositories"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
)

// structureService implements the StructureService interface
type structureService struct {
	txManager  repositories.TransactionManager
	structures catalogRepo.StructureRepository
	folders    catalogRepo.FolderRepository
	logs       catalogRepo.ImportLogRepository
	logger     *slog.Logger
}

// NewStructureService creates a new structure service
func NewStructureService(
	txManager repositories.TransactionManager,
	structures catalogRepo.StructureRepository,
	folders catalogRepo.FolderRepository,
	logs catalogRepo.ImportLogRepository,
	logger *slog.Logger,
) catalogSvc.StructureService {
	return &structureService{
		txManager:  txManager,
		structures: structures,
		folders:    folders,
		logs:       logs,
		logger:     logger,
	}
}

// ListStructures returns structures newest first
func (s *structureService) ListStructures(ctx context.Context, includeInactive bool) ([]models.Structure, error) {
	return s.structures.List(ctx, !includeInactive)
}

// GetStructure returns a structure with its folder counts
func (s *structureService) GetStructure(ctx context.Context, id string) (*models.Structure, error) {
	if err := requireID("structure", id); err != nil {
		return nil, err
	}

	structure, err := s.structures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, roots, err := s.folders.Count(ctx, id)
	if err != nil {
		return nil, err
	}
	structure.TotalFolders = total
	structure.RootFolders = roots

	return structure, nil
}

// UpdateStructure applies a partial update
func (s *structureService) UpdateStructure(ctx context.Context, id string, req *catalogSvc.UpdateStructureRequest) (*models.Structure, error) {
	if err := requireID("structure", id); err != nil {
		return nil, err
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	structure, err := s.structures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		structure.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Present {
		structure.Description = req.Description.Value
	}
	if req.IsActive != nil {
		structure.IsActive = *req.IsActive
	}
	structure.UpdatedAt = time.Now().UTC()

	if err := s.structures.Update(ctx, structure); err != nil {
		return nil, err
	}

	s.logger.Info("structure updated",
		"id", structure.ID,
		"name", structure.Name,
		"is_active", structure.IsActive,
	)

	return structure, nil
}

// DeleteStructure removes a structure with its folders and attachments
func (s *structureService) DeleteStructure(ctx context.Context, id string, userID *string) (*models.Structure, error) {
	if err := requireID("structure", id); err != nil {
		return nil, err
	}

	var deleted *models.Structure
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		structure, err := s.structures.GetByID(ctx, id)
		if err != nil {
			return err
		}

		total, _, err := s.folders.Count(ctx, id)
		if err != nil {
			return err
		}

		if err := s.structures.Delete(ctx, id); err != nil {
			return err
		}

		if err := s.logs.Append(ctx, &models.ImportLog{
			Operation:      models.OperationDelete,
			Filename:       structure.Name,
			Message:        fmt.Sprintf("structure %q deleted with %d folders", structure.Name, total),
			ItemsProcessed: total,
			UserID:         userID,
		}); err != nil {
			return err
		}

		structure.TotalFolders = total
		deleted = structure
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("structure deleted",
		"id", deleted.ID,
		"name", deleted.Name,
		"folders", deleted.TotalFolders,
	)

	return deleted, nil
}

func (s *structureService) validateUpdateRequest(req *catalogSvc.UpdateStructureRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.When(req.Name != nil,
				validation.By(func(value interface{}) error {
					name, _ := value.(*string)
					if name == nil || strings.TrimSpace(*name) == "" {
						return fmt.Errorf("cannot be blank")
					}
					return nil
				}),
				validation.RuneLength(1, config.MaxStructureNameLength),
			),
		),
	)
}
