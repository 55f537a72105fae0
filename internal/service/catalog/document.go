package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

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

// documentService implements the DocumentService interface
type documentService struct {
	txManager  repositories.TransactionManager
	structures catalogRepo.StructureRepository
	folders    catalogRepo.FolderRepository
	documents  catalogRepo.DocumentRepository
	logs       catalogRepo.ImportLogRepository
	files      *storage.FileStore
	parser     *xmlparse.Parser
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	txManager repositories.TransactionManager,
	structures catalogRepo.StructureRepository,
	folders catalogRepo.FolderRepository,
	documents catalogRepo.DocumentRepository,
	logs catalogRepo.ImportLogRepository,
	files *storage.FileStore,
	parser *xmlparse.Parser,
	logger *slog.Logger,
) catalogSvc.DocumentService {
	return &documentService{
		txManager:  txManager,
		structures: structures,
		folders:    folders,
		documents:  documents,
		logs:       logs,
		files:      files,
		parser:     parser,
		logger:     logger,
	}
}

// Upload stores a document and attaches it to its folder
func (s *documentService) Upload(ctx context.Context, req *catalogSvc.UploadDocumentRequest) (*catalogSvc.UploadDocumentResult, error) {
	if strings.TrimSpace(req.StructureID) == "" {
		return nil, &domain.ValidationError{Message: "structure_id is required"}
	}
	if len(req.Content) == 0 {
		return nil, &domain.ValidationError{Message: "uploaded file is empty"}
	}

	digest := utils.ContentDigest(req.Content)

	parsed, err := s.parser.ParseDocument(req.Content)
	if err != nil {
		return nil, err
	}
	if code := strings.TrimSpace(req.CodeOverride); code != "" {
		parsed.Code = code
	}
	if err := checkLength("document code", parsed.Code, config.MaxCodeLength); err != nil {
		return nil, err
	}
	if err := checkLength("document title", parsed.Title, config.MaxDocumentNameLength); err != nil {
		return nil, err
	}

	duplicates, err := s.documents.FindDuplicates(ctx, parsed.Code, digest)
	if err != nil {
		return nil, err
	}
	if len(duplicates) > 0 && !req.Force {
		s.logger.Info("document upload stopped on duplicates",
			"code", parsed.Code,
			"file_hash", digest,
			"candidates", len(duplicates),
		)
		return nil, newDuplicateDocumentError(parsed.Code, digest, duplicates)
	}

	if err := requireID("structure", req.StructureID); err != nil {
		return nil, err
	}
	structure, err := s.structures.GetByID(ctx, req.StructureID)
	if err != nil {
		return nil, err
	}

	folder, err := s.folders.GetByCode(ctx, structure.ID, parsed.FolderCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{
				Resource: "folder",
				ID:       parsed.FolderCode,
				Message: fmt.Sprintf("folder with code %q not found in structure %q; check metadata/folder_code or import a structure that contains it",
					parsed.FolderCode, structure.Name),
			}
		}
		return nil, err
	}

	var (
		result     *catalogSvc.UploadDocumentResult
		storedPath string
		oldPath    string
	)

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.documents.GetByCode(ctx, parsed.Code)
		switch {
		case err == nil:
			if !req.Force {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("document with code '%s' already exists", parsed.Code),
					ResourceType: "existing_document",
					ResourceID:   existing.ID,
				}
			}
		case errors.Is(err, domain.ErrNotFound):
			existing = nil
		default:
			return err
		}

		storedPath, err = s.files.Save(storage.DocumentsPrefix, req.Filename, req.Content)
		if err != nil {
			return fmt.Errorf("store document file: %w", err)
		}

		now := time.Now().UTC()
		doc := existing
		isNew := doc == nil
		if isNew {
			doc = &models.Document{
				Code:      parsed.Code,
				CreatedAt: now,
			}
		} else {
			oldPath = doc.StoragePath
		}
		doc.Name = parsed.Title
		doc.Metadata = parsed.Metadata
		doc.SourceFilename = req.Filename
		doc.StoragePath = storedPath
		doc.FileSize = int64(len(req.Content))
		doc.FileHash = digest
		doc.UpdatedAt = now

		operation := models.OperationImport
		action := catalogSvc.ActionCreated
		if isNew {
			err = s.documents.Create(ctx, doc)
		} else {
			operation = models.OperationUpdate
			action = catalogSvc.ActionOverwritten
			err = s.documents.Update(ctx, doc)
		}
		if err != nil {
			return err
		}

		attached, err := s.documents.Attach(ctx, folder.ID, doc.ID)
		if err != nil {
			return err
		}

		if err := s.logs.Append(ctx, &models.ImportLog{
			Operation:      operation,
			Filename:       req.Filename,
			Message:        fmt.Sprintf("document %q %s in folder %q", doc.Code, action, folder.Code),
			ItemsProcessed: 1,
			UserID:         req.UserID,
			PerformedAt:    now,
		}); err != nil {
			return err
		}

		result = &catalogSvc.UploadDocumentResult{
			Action: action,
			Document: catalogSvc.UploadedDocument{
				ID:        doc.ID,
				Code:      doc.Code,
				Name:      doc.Name,
				FileHash:  doc.FileHash,
				CreatedAt: doc.CreatedAt,
				IsNew:     isNew,
			},
			Folder: catalogSvc.FolderRef{
				ID:        folder.ID,
				Code:      folder.Code,
				Name:      folder.Name,
				Structure: structure.Name,
			},
			AssociationCreated: attached,
		}
		return nil
	})

	if err != nil {
		s.discard(storedPath)
		return nil, err
	}

	if oldPath != "" && oldPath != storedPath {
		s.discard(oldPath)
	}

	s.logger.Info("document stored",
		"document_id", result.Document.ID,
		"code", result.Document.Code,
		"action", result.Action,
		"folder_id", result.Folder.ID,
		"association_created", result.AssociationCreated,
	)

	return result, nil
}

// DecideDuplicate validates the caller's choice and describes the follow-up
// upload. It never writes.
func (s *documentService) DecideDuplicate(ctx context.Context, req *catalogSvc.DuplicateDecisionRequest) (*catalogSvc.DuplicateDecisionResult, error) {
	if err := s.validateDecision(req); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	original := req.OriginalData
	switch req.Decision {
	case catalogSvc.DecisionSkip:
		return &catalogSvc.DuplicateDecisionResult{
			Action:  catalogSvc.ActionSkipped,
			Message: fmt.Sprintf("upload of %q skipped", original.DocCode),
		}, nil

	case catalogSvc.DecisionRename:
		code := strings.TrimSpace(req.ProposedCode)
		return &catalogSvc.DuplicateDecisionResult{
			Action:   catalogSvc.ActionRenamed,
			Message:  fmt.Sprintf("resubmit the upload with code %q and force=true", code),
			NewCode:  code,
			Resubmit: &catalogSvc.Resubmission{Force: true, Code: code},
		}, nil

	default:
		return &catalogSvc.DuplicateDecisionResult{
			Action:   catalogSvc.ActionOverwritePending,
			Message:  fmt.Sprintf("resubmit the upload with force=true to overwrite %q", original.DocCode),
			Resubmit: &catalogSvc.Resubmission{Force: true},
		}, nil
	}
}

func (s *documentService) validateDecision(req *catalogSvc.DuplicateDecisionRequest) error {
	originalCode := ""
	if req.OriginalData != nil {
		originalCode = req.OriginalData.DocCode
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.Decision,
			validation.Required,
			validation.In(catalogSvc.DecisionSkip, catalogSvc.DecisionRename, catalogSvc.DecisionOverwrite).
				Error("must be one of skip, rename, overwrite"),
		),
		validation.Field(&req.OriginalData, validation.Required),
		validation.Field(&req.ProposedCode,
			validation.When(req.Decision == catalogSvc.DecisionRename,
				validation.Required,
				validation.RuneLength(1, config.MaxCodeLength),
				validation.NotIn(originalCode).Error("must differ from the original code"),
			),
		),
	)
}

// GetDocument returns a document with its folders
func (s *documentService) GetDocument(ctx context.Context, id string) (*catalogSvc.DocumentDetails, error) {
	if err := requireID("document", id); err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	folders, err := s.documents.ListFolders(ctx, id)
	if err != nil {
		return nil, err
	}

	return &catalogSvc.DocumentDetails{Document: *doc, Folders: folders}, nil
}

// ListByFolder returns the documents attached to a folder
func (s *documentService) ListByFolder(ctx context.Context, folderID string) (*catalogSvc.FolderDocuments, error) {
	if err := requireID("folder", folderID); err != nil {
		return nil, err
	}

	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	structure, err := s.structures.GetByID(ctx, folder.StructureID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	return &catalogSvc.FolderDocuments{
		Folder: catalogSvc.FolderRef{
			ID:        folder.ID,
			Code:      folder.Code,
			Name:      folder.Name,
			Structure: structure.Name,
		},
		DocumentsCount: len(docs),
		Documents:      docs,
	}, nil
}

// OpenFile opens the stored upload of a document
func (s *documentService) OpenFile(ctx context.Context, id string) (*catalogSvc.DocumentFile, error) {
	if err := requireID("document", id); err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.files.Open(doc.StoragePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{
				Resource: "document file",
				ID:       id,
				Message:  fmt.Sprintf("stored file of document %s is missing", doc.Code),
			}
		}
		return nil, fmt.Errorf("open %s: %w", doc.StoragePath, err)
	}

	return &catalogSvc.DocumentFile{Filename: doc.SourceFilename, Content: content}, nil
}

func (s *documentService) discard(path string) {
	if path == "" {
		return
	}
	if err := s.files.Remove(path); err != nil {
		s.logger.Warn("failed to remove stored document file", "path", path, "error", err)
	}
}

func newDuplicateDocumentError(code, digest string, duplicates []models.Document) *domain.DuplicateDocumentError {
	candidates := make([]domain.DuplicateCandidate, 0, len(duplicates))
	for _, d := range duplicates {
		candidates = append(candidates, domain.DuplicateCandidate{
			ID:         d.ID,
			Code:       d.Code,
			Name:       d.Name,
			FileHash:   d.FileHash,
			CreatedAt:  d.CreatedAt,
			IsSameHash: d.FileHash == digest,
			IsSameCode: d.Code == code,
		})
	}

	suggested := SuggestCode(code)
	return &domain.DuplicateDocumentError{
		ProposedCode:  code,
		SuggestedCode: suggested,
		FileHash:      digest,
		Candidates:    candidates,
		Options: domain.ResolutionOptions{
			Rename:    fmt.Sprintf("upload as %q", suggested),
			Overwrite: fmt.Sprintf("replace the existing document %q", code),
			Skip:      "keep the existing document and discard this upload",
		},
	}
}

// SuggestCode derives an alternate document code: the original code with an
// 8-character random hex suffix.
func SuggestCode(code string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return code + "_" + suffix
}
