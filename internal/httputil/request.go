package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// maxJSONBody caps JSON request bodies
const maxJSONBody = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// Upload is one file read from a multipart form
type Upload struct {
	Filename string
	Content  []byte
}

// ErrUploadTooLarge is returned when a multipart body exceeds the limit
var ErrUploadTooLarge = errors.New("upload exceeds the size limit")

// ReadUpload reads the named file field of a multipart form. The whole
// request body is capped at maxBytes.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, ErrUploadTooLarge
		}
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing form file %q", field)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}

	return &Upload{Filename: header.Filename, Content: content}, nil
}

// FormBool reads a boolean form or query value; absent or unparsable is false
func FormBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.FormValue(key)))
	return err == nil && v
}

// QueryPtr returns a query parameter, or nil when absent or blank
func QueryPtr(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}
