package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"treelink/internal/domain"
	"treelink/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Every response
// carries a machine-stable reason; conflicts also carry their choices.
func handleError(w http.ResponseWriter, err error) {
	var (
		duplicateErr *domain.DuplicateDocumentError
		conflictErr  *domain.ConflictError
		missingErr   *domain.MissingRequiredFieldError
		decodeErr    *domain.DecodeError
		httpErr      domain.HTTPError
	)

	switch {
	case errors.As(err, &duplicateErr):
		httputil.RespondProblem(w, duplicateErr.StatusCode(), duplicateErr.Reason(), duplicateErr.Error(), map[string]interface{}{
			"proposed_code":  duplicateErr.ProposedCode,
			"suggested_code": duplicateErr.SuggestedCode,
			"file_hash":      duplicateErr.FileHash,
			"duplicates":     duplicateErr.Candidates,
			"options":        duplicateErr.Options,
		})
	case errors.As(err, &conflictErr):
		httputil.RespondProblem(w, conflictErr.StatusCode(), conflictErr.Reason(), conflictErr.Error(), map[string]interface{}{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	case errors.As(err, &missingErr):
		httputil.RespondProblem(w, missingErr.StatusCode(), missingErr.Reason(), missingErr.Error(), map[string]interface{}{
			"field":    missingErr.Field,
			"presence": missingErr.Presence,
		})
	case errors.As(err, &decodeErr):
		httputil.RespondProblem(w, decodeErr.StatusCode(), decodeErr.Reason(), decodeErr.Error(), map[string]interface{}{
			"tried": decodeErr.Tried,
		})
	case errors.As(err, &httpErr):
		httputil.RespondProblem(w, httpErr.StatusCode(), httpErr.Reason(), httpErr.Error(), nil)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondProblem(w, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondProblem(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondProblem(w, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondProblem(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

// respondBadRequest reports malformed transport input
func respondBadRequest(w http.ResponseWriter, detail string) {
	httputil.RespondProblem(w, http.StatusBadRequest, "bad_request", detail, nil)
}

// readUpload reads the "file" form field and maps transport failures
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*httputil.Upload, bool) {
	upload, err := httputil.ReadUpload(w, r, "file", maxBytes)
	if err != nil {
		if errors.Is(err, httputil.ErrUploadTooLarge) {
			httputil.RespondProblem(w, http.StatusRequestEntityTooLarge, "upload_too_large", err.Error(), map[string]interface{}{
				"max_bytes": maxBytes,
			})
			return nil, false
		}
		respondBadRequest(w, err.Error())
		return nil, false
	}
	return upload, true
}
