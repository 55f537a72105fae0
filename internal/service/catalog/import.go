package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"treelink/internal/config"
	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	"treelink/internal/domain/repositories"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/storage"
	"treelink/internal/utils"
	"treelink/internal/xmlparse"
)

// importService implements the ImportService interface
type importService struct {
	txManager  repositories.TransactionManager
	structures catalogRepo.StructureRepository
	folders    catalogRepo.FolderRepository
	logs       catalogRepo.ImportLogRepository
	files      *storage.FileStore
	parser     *xmlparse.Parser
	logger     *slog.Logger
}

// NewImportService creates a new structure import service
func NewImportService(
	txManager repositories.TransactionManager,
	structures catalogRepo.StructureRepository,
	folders catalogRepo.FolderRepository,
	logs catalogRepo.ImportLogRepository,
	files *storage.FileStore,
	parser *xmlparse.Parser,
	logger *slog.Logger,
) catalogSvc.ImportService {
	return &importService{
		txManager:  txManager,
		structures: structures,
		folders:    folders,
		logs:       logs,
		files:      files,
		parser:     parser,
		logger:     logger,
	}
}

// ImportStructure stores a structure file and its folder tree
func (s *importService) ImportStructure(ctx context.Context, req *catalogSvc.ImportStructureRequest) (*catalogSvc.ImportStructureResult, error) {
	if len(req.Content) == 0 {
		return nil, &domain.ValidationError{Message: "uploaded file is empty"}
	}

	digest := utils.ContentDigest(req.Content)

	existing, err := s.structures.GetByContentHash(ctx, digest)
	if err == nil {
		s.logger.Info("structure upload skipped, identical content already imported",
			"structure_id", existing.ID,
			"filename", req.Filename,
		)
		return duplicateStructureResult(existing, req.Filename), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	parsed, err := s.parser.ParseStructure(req.Content, req.Filename)
	if err != nil {
		return nil, err
	}
	if err := checkLength("structure name", parsed.Name, config.MaxStructureNameLength); err != nil {
		return nil, err
	}

	var result *catalogSvc.ImportStructureResult
	var storedPath string

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		structure := &models.Structure{
			Name:        parsed.Name,
			Description: stringPtr("Imported from " + req.Filename),
			CreatedAt:   now,
			UpdatedAt:   now,
			IsActive:    true,
			ContentHash: stringPtr(digest),
		}
		if err := s.structures.Create(ctx, structure); err != nil {
			return err
		}

		builder := newFolderTreeBuilder(s.folders, structure)
		for _, el := range parsed.Folders {
			if _, err := builder.build(ctx, el, nil); err != nil {
				return err
			}
		}

		total, _, err := s.folders.Count(ctx, structure.ID)
		if err != nil {
			return err
		}

		storedPath, err = s.files.Save(storage.StructuresPrefix, req.Filename, req.Content)
		if err != nil {
			return fmt.Errorf("store structure file: %w", err)
		}

		message := fmt.Sprintf("structure %q imported with %d folders", structure.Name, total)
		if err := s.logs.Append(ctx, &models.ImportLog{
			Operation:      models.OperationStructureImport,
			Filename:       req.Filename,
			Message:        message,
			ItemsProcessed: total,
			UserID:         req.UserID,
			PerformedAt:    now,
		}); err != nil {
			return err
		}

		result = &catalogSvc.ImportStructureResult{
			StructureID:   structure.ID,
			StructureName: structure.Name,
			FoldersCount:  total,
			Filename:      req.Filename,
			Message:       message,
		}
		return nil
	})

	if err != nil {
		s.discard(storedPath)

		// A concurrent import of the same bytes won the unique index
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) && conflict.ResourceType == "structure" {
			if existing, getErr := s.structures.GetByContentHash(ctx, digest); getErr == nil {
				return duplicateStructureResult(existing, req.Filename), nil
			}
		}
		return nil, err
	}

	s.logger.Info("structure imported",
		"structure_id", result.StructureID,
		"name", result.StructureName,
		"folders", result.FoldersCount,
		"charset", parsed.Charset,
		"stored_path", storedPath,
	)

	return result, nil
}

func (s *importService) discard(path string) {
	if path == "" {
		return
	}
	if err := s.files.Remove(path); err != nil {
		s.logger.Warn("failed to remove stored file after rollback", "path", path, "error", err)
	}
}

func duplicateStructureResult(existing *models.Structure, filename string) *catalogSvc.ImportStructureResult {
	return &catalogSvc.ImportStructureResult{
		Duplicate:     true,
		StructureID:   existing.ID,
		StructureName: existing.Name,
		Filename:      filename,
		Message:       fmt.Sprintf("structure was already imported as %q", existing.Name),
	}
}
