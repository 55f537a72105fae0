package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	catalogSvc "treelink/internal/domain/services/catalog"
)

// searchService implements the SearchService interface
type searchService struct {
	folders       catalogRepo.FolderRepository
	documents     catalogRepo.DocumentRepository
	folderLimit   int
	documentLimit int
	logger        *slog.Logger
}

// NewSearchService creates a new search service. Non-positive limits fall
// back to the package defaults.
func NewSearchService(
	folders catalogRepo.FolderRepository,
	documents catalogRepo.DocumentRepository,
	folderLimit, documentLimit int,
	logger *slog.Logger,
) catalogSvc.SearchService {
	if folderLimit <= 0 {
		folderLimit = models.FolderSearchLimit
	}
	if documentLimit <= 0 {
		documentLimit = models.DocumentSearchLimit
	}
	return &searchService{
		folders:       folders,
		documents:     documents,
		folderLimit:   folderLimit,
		documentLimit: documentLimit,
		logger:        logger,
	}
}

// Search looks for documents and, when a query is given, folders
func (s *searchService) Search(ctx context.Context, req *catalogSvc.SearchRequest) (*catalogSvc.SearchResult, error) {
	filter, err := s.filter(req)
	if err != nil {
		return nil, err
	}
	if filter.Query == "" && filter.StructureID == nil && filter.FolderID == nil && filter.Hash == nil {
		return nil, &domain.ValidationError{Message: "a search query or at least one filter is required"}
	}

	result, err := s.searchDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Query != "" {
		folderFilter := filter
		folderFilter.Limit = s.folderLimit
		folders, err := s.folders.Search(ctx, folderFilter)
		if err != nil {
			return nil, err
		}
		result.Folders = folders
		result.Count += len(folders)
	}

	s.logger.Debug("search completed",
		"query", filter.Query,
		"folders", len(result.Folders),
		"documents", len(result.Documents),
	)

	return result, nil
}

// SearchDocuments searches documents only
func (s *searchService) SearchDocuments(ctx context.Context, req *catalogSvc.SearchRequest) (*catalogSvc.SearchResult, error) {
	filter, err := s.filter(req)
	if err != nil {
		return nil, err
	}
	return s.searchDocuments(ctx, filter)
}

func (s *searchService) searchDocuments(ctx context.Context, filter models.SearchFilter) (*catalogSvc.SearchResult, error) {
	filter.Limit = s.documentLimit
	docs, err := s.documents.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &catalogSvc.SearchResult{
		Query:     filter.Query,
		Documents: docs,
		Count:     len(docs),
	}, nil
}

// filter normalizes the request; blank filters are dropped
func (s *searchService) filter(req *catalogSvc.SearchRequest) (models.SearchFilter, error) {
	filter := models.SearchFilter{
		Query:       strings.TrimSpace(req.Query),
		StructureID: nonBlank(req.StructureID),
		FolderID:    nonBlank(req.FolderID),
		Hash:        nonBlank(req.Hash),
	}

	for name, id := range map[string]*string{"structure_id": filter.StructureID, "folder_id": filter.FolderID} {
		if id == nil {
			continue
		}
		if _, err := uuid.Parse(*id); err != nil {
			return filter, &domain.ValidationError{Message: name + " must be a valid UUID"}
		}
	}

	return filter, nil
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
