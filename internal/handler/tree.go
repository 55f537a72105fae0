package handler

import (
	"log/slog"
	"net/http"

	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/httputil"
)

// TreeHandler serves folder trees and consistency reports
type TreeHandler struct {
	treeService        catalogSvc.TreeService
	consistencyService catalogSvc.ConsistencyService
	logger             *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService catalogSvc.TreeService, consistencyService catalogSvc.ConsistencyService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService:        treeService,
		consistencyService: consistencyService,
		logger:             logger,
	}
}

// GetFolderTree returns the nested folder tree of a structure
// GET /api/structures/{id}/folders
func (h *TreeHandler) GetFolderTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.treeService.GetFolderTree(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// CheckConsistency runs the consistency diagnostic
// GET /api/structures/{id}/consistency-check
func (h *TreeHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistencyService.Check(r.Context(), r.PathValue("id"), httputil.ActorID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}
