package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Reason returns a short machine-stable identifier for clients.
type HTTPError interface {
	error
	StatusCode() int
	Reason() string
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a referenced structure, folder or document does not exist
	NotFoundError struct {
		Resource string
		ID       string
		Message  string
	}

	// ValidationError indicates invalid input (malformed decision payload, bad query)
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates a presented credential was rejected
	UnauthorizedError struct {
		Message string
	}

	// DecodeError indicates none of the supported text encodings could decode the upload
	DecodeError struct {
		Tried []string
	}

	// MalformedXMLError carries the XML parser diagnostic
	MalformedXMLError struct {
		Diagnostic string
	}
)

// Error implementations
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode file (tried %v)", e.Tried)
}
func (e *MalformedXMLError) Error() string { return "malformed XML: " + e.Diagnostic }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *DecodeError) StatusCode() int       { return http.StatusBadRequest }
func (e *MalformedXMLError) StatusCode() int { return http.StatusBadRequest }

// Reason implementations
func (e *NotFoundError) Reason() string     { return "not_found" }
func (e *ValidationError) Reason() string   { return "validation_error" }
func (e *UnauthorizedError) Reason() string { return "unauthorized" }
func (e *DecodeError) Reason() string       { return "decode_error" }
func (e *MalformedXMLError) Reason() string { return "malformed_xml" }

// Is allows errors.Is() to match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// Sentinel errors matched with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// NewNotFound builds a NotFoundError for a resource kind and identifier
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Presence distinguishes an absent element from one that exists but is blank
type Presence string

const (
	PresenceMissing Presence = "missing"
	PresenceEmpty   Presence = "empty"
)

// MissingRequiredFieldError indicates a required header/metadata element is
// absent or present without usable text
type MissingRequiredFieldError struct {
	Field    string   // e.g. "header/doc_number"
	Presence Presence // missing or empty
}

func (e *MissingRequiredFieldError) Error() string {
	if e.Presence == PresenceEmpty {
		return fmt.Sprintf("element <%s> is empty or contains only whitespace", e.Field)
	}
	return fmt.Sprintf("required element <%s> is missing", e.Field)
}

func (e *MissingRequiredFieldError) StatusCode() int { return http.StatusBadRequest }
func (e *MissingRequiredFieldError) Reason() string  { return "missing_required_field" }
func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError represents a resource conflict with details about the existing resource
// Implements HTTPError interface for extensible error handling
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (structure, document)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Reason implements the HTTPError interface
func (e *ConflictError) Reason() string {
	return "conflict"
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// DuplicateCandidate is an existing document clashing with an upload by code or content
type DuplicateCandidate struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	FileHash   string    `json:"file_hash"`
	CreatedAt  time.Time `json:"created_at"`
	IsSameHash bool      `json:"is_same_hash"`
	IsSameCode bool      `json:"is_same_code"`
}

// ResolutionOptions names the three choices offered to the caller on a duplicate
type ResolutionOptions struct {
	Rename    string `json:"rename"`
	Overwrite string `json:"overwrite"`
	Skip      string `json:"skip"`
}

// DuplicateDocumentError is returned when an upload clashes with stored documents
// and no override was requested. Nothing has been written when it is returned.
type DuplicateDocumentError struct {
	ProposedCode  string               `json:"proposed_code"`
	SuggestedCode string               `json:"suggested_code"`
	FileHash      string               `json:"file_hash"`
	Candidates    []DuplicateCandidate `json:"duplicates"`
	Options       ResolutionOptions    `json:"options"`
}

func (e *DuplicateDocumentError) Error() string {
	return "a document with the same code or content already exists"
}

func (e *DuplicateDocumentError) StatusCode() int { return http.StatusConflict }
func (e *DuplicateDocumentError) Reason() string  { return "duplicate_found" }
func (e *DuplicateDocumentError) Is(target error) bool {
	return target == ErrConflict
}
