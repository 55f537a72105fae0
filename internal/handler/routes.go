package handler

import (
	"net/http"

	"treelink/internal/httputil"
)

// Handlers groups every HTTP handler of the service
type Handlers struct {
	Structures *StructureHandler
	Trees      *TreeHandler
	Documents  *DocumentHandler
	Search     *SearchHandler
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes mounts all routes on mux (Go 1.22+ enhanced patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /health", HealthCheck)

	// Structure routes
	mux.HandleFunc("GET /api/structures", h.Structures.ListStructures)
	mux.HandleFunc("POST /api/structures/upload", h.Structures.UploadStructure)
	mux.HandleFunc("GET /api/structures/{id}", h.Structures.GetStructure)
	mux.HandleFunc("PATCH /api/structures/{id}", h.Structures.UpdateStructure)
	mux.HandleFunc("DELETE /api/structures/{id}", h.Structures.DeleteStructure)
	mux.HandleFunc("GET /api/structures/{id}/folders", h.Trees.GetFolderTree)
	mux.HandleFunc("GET /api/structures/{id}/consistency-check", h.Trees.CheckConsistency)

	// Document routes
	mux.HandleFunc("POST /api/documents/upload", h.Documents.UploadDocument)
	mux.HandleFunc("POST /api/documents/handle-duplicate", h.Documents.HandleDuplicate)
	mux.HandleFunc("GET /api/documents/search", h.Search.SearchDocuments) // More specific than {id}, wins regardless of order
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.GetDocument)
	mux.HandleFunc("GET /api/documents/{id}/file", h.Documents.DownloadDocument)
	mux.HandleFunc("GET /api/folders/{id}/documents", h.Documents.ListFolderDocuments)

	// Search
	mux.HandleFunc("GET /api/search", h.Search.Search)
}
