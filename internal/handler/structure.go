package handler

import (
	"log/slog"
	"net/http"

	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/httputil"
)

// StructureHandler handles structure HTTP requests
type StructureHandler struct {
	importService    catalogSvc.ImportService
	structureService catalogSvc.StructureService
	maxUploadBytes   int64
	logger           *slog.Logger
}

// NewStructureHandler creates a new structure handler
func NewStructureHandler(
	importService catalogSvc.ImportService,
	structureService catalogSvc.StructureService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *StructureHandler {
	return &StructureHandler{
		importService:    importService,
		structureService: structureService,
		maxUploadBytes:   maxUploadBytes,
		logger:           logger,
	}
}

// UpdateStructureRequest is the PATCH body. Description is tri-state.
type UpdateStructureRequest struct {
	Name        *string                 `json:"name"`
	Description httputil.OptionalString `json:"description"`
	IsActive    *bool                   `json:"is_active"`
}

// ListStructures lists structures
// GET /api/structures?include_inactive=true
func (h *StructureHandler) ListStructures(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	structures, err := h.structureService.ListStructures(r.Context(), includeInactive)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structures)
}

// UploadStructure imports a structure XML file
// POST /api/structures/upload (multipart field "file")
// Returns 201 when imported, 200 with duplicate=true when identical bytes
// were imported before.
func (h *StructureHandler) UploadStructure(w http.ResponseWriter, r *http.Request) {
	upload, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}

	result, err := h.importService.ImportStructure(r.Context(), &catalogSvc.ImportStructureRequest{
		Filename: upload.Filename,
		Content:  upload.Content,
		UserID:   httputil.ActorID(r),
	})
	if err != nil {
		h.logger.Warn("structure upload failed", "filename", upload.Filename, "error", err)
		handleError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	httputil.RespondJSON(w, status, result)
}

// GetStructure returns structure details with folder counts
// GET /api/structures/{id}
func (h *StructureHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	structure, err := h.structureService.GetStructure(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}

// UpdateStructure applies a partial update
// PATCH /api/structures/{id}
func (h *StructureHandler) UpdateStructure(w http.ResponseWriter, r *http.Request) {
	var req UpdateStructureRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	structure, err := h.structureService.UpdateStructure(r.Context(), r.PathValue("id"), &catalogSvc.UpdateStructureRequest{
		Name: req.Name,
		Description: catalogSvc.OptionalDescription{
			Present: req.Description.Present,
			Value:   req.Description.Value,
		},
		IsActive: req.IsActive,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}

// DeleteStructure deletes a structure with its folders and attachments
// DELETE /api/structures/{id}
func (h *StructureHandler) DeleteStructure(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.structureService.DeleteStructure(r.Context(), r.PathValue("id"), httputil.ActorID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":              deleted.ID,
		"name":            deleted.Name,
		"folders_deleted": deleted.TotalFolders,
	})
}
