package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"treelink/internal/domain"
	catalogSvc "treelink/internal/domain/services/catalog"
	"treelink/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService     catalogSvc.DocumentService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService catalogSvc.DocumentService, maxUploadBytes int64, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:     docService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadDocument stores a document XML file
// POST /api/documents/upload (multipart: file, structure_id, force, code)
// Returns 201 on create, 200 on overwrite, 409 with candidates on duplicates
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	upload, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}

	result, err := h.docService.Upload(r.Context(), &catalogSvc.UploadDocumentRequest{
		StructureID:  strings.TrimSpace(r.FormValue("structure_id")),
		Filename:     upload.Filename,
		Content:      upload.Content,
		Force:        httputil.FormBool(r, "force"),
		CodeOverride: r.FormValue("code"),
		UserID:       httputil.ActorID(r),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusCreated
	if !result.Document.IsNew {
		status = http.StatusOK
	}
	httputil.RespondJSON(w, status, result)
}

// HandleDuplicate acknowledges a duplicate decision; it stores nothing
// POST /api/documents/handle-duplicate
func (h *DocumentHandler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.DuplicateDecisionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, &domain.ValidationError{Message: "malformed decision payload: " + err.Error()})
		return
	}

	result, err := h.docService.DecideDuplicate(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetDocument returns a document with the folders it is attached to
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListFolderDocuments lists the documents attached to a folder
// GET /api/folders/{id}/documents
func (h *DocumentHandler) ListFolderDocuments(w http.ResponseWriter, r *http.Request) {
	listing, err := h.docService.ListByFolder(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// DownloadDocument streams the stored XML of a document
// GET /api/documents/{id}/file
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	file, err := h.docService.OpenFile(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	defer file.Content.Close()

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file.Content); err != nil {
		h.logger.Warn("document download interrupted", "document_id", r.PathValue("id"), "error", err)
	}
}
