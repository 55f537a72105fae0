package handler

import (
	"log/slog"
	"net/http"

	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/httputil"
)

// SearchHandler handles search requests
type SearchHandler struct {
	searchService catalogSvc.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService catalogSvc.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search looks for folders and documents
// GET /api/search?q=&folder_id=&structure_id=&hash=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.searchService.Search(r.Context(), searchRequest(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// SearchDocuments looks for documents only
// GET /api/documents/search?q=&folder_id=&structure_id=&hash=
func (h *SearchHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	result, err := h.searchService.SearchDocuments(r.Context(), searchRequest(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

func searchRequest(r *http.Request) *catalogSvc.SearchRequest {
	return &catalogSvc.SearchRequest{
		Query:       r.URL.Query().Get("q"),
		FolderID:    httputil.QueryPtr(r, "folder_id"),
		StructureID: httputil.QueryPtr(r, "structure_id"),
		Hash:        httputil.QueryPtr(r, "hash"),
	}
}
