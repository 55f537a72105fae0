package catalog

import (
	"context"
	"io"
	"time"

	"treelink/internal/domain/models/catalog"
)

// Upload actions
const (
	ActionCreated     = "created"
	ActionOverwritten = "overwritten"
)

// Duplicate decisions and the actions they map to
const (
	DecisionSkip      = "skip"
	DecisionRename    = "rename"
	DecisionOverwrite = "overwrite"

	ActionSkipped          = "skipped"
	ActionRenamed          = "renamed"
	ActionOverwritePending = "overwrite_pending"
)

// UploadDocumentRequest carries one uploaded document file
type UploadDocumentRequest struct {
	StructureID string
	Filename    string
	Content     []byte

	// Force overwrites an existing document with the same code
	Force bool

	// CodeOverride replaces header/doc_number (carries out a rename decision)
	CodeOverride string

	UserID *string
}

// UploadedDocument is the document part of an upload result
type UploadedDocument struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	FileHash  string    `json:"file_hash"`
	CreatedAt time.Time `json:"created_at"`
	IsNew     bool      `json:"is_new"`
}

// FolderRef is the short form of a folder with its structure name
type FolderRef struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Structure string `json:"structure"`
}

// UploadDocumentResult describes a stored upload
type UploadDocumentResult struct {
	Action             string           `json:"action"`
	Document           UploadedDocument `json:"document"`
	Folder             FolderRef        `json:"folder"`
	AssociationCreated bool             `json:"association_created"`
}

// OriginalUpload echoes the upload a duplicate decision refers to
type OriginalUpload struct {
	DocCode     string `json:"doc_code"`
	StructureID string `json:"structure_id,omitempty"`
	Filename    string `json:"filename,omitempty"`
	FileHash    string `json:"file_hash,omitempty"`
}

// DuplicateDecisionRequest is the client's answer to a duplicate_found response
type DuplicateDecisionRequest struct {
	Decision     string          `json:"decision"`
	ProposedCode string          `json:"proposed_code"`
	OriginalData *OriginalUpload `json:"original_data"`
}

// Resubmission tells the client how to repeat the upload
type Resubmission struct {
	Force bool   `json:"force,omitempty"`
	Code  string `json:"code,omitempty"`
}

// DuplicateDecisionResult acknowledges a decision. Nothing is stored.
type DuplicateDecisionResult struct {
	Action   string        `json:"action"`
	Message  string        `json:"message"`
	NewCode  string        `json:"new_code,omitempty"`
	Resubmit *Resubmission `json:"resubmit,omitempty"`
}

// DocumentDetails is a document with the folders it is attached to
type DocumentDetails struct {
	catalog.Document
	Folders []catalog.DocumentFolder `json:"folders"`
}

// FolderDocuments lists the documents attached to one folder
type FolderDocuments struct {
	Folder         FolderRef                  `json:"folder"`
	DocumentsCount int                        `json:"documents_count"`
	Documents      []catalog.AttachedDocument `json:"documents"`
}

// DocumentFile is an open handle on the stored XML of a document
type DocumentFile struct {
	Filename string
	Content  io.ReadCloser
}

// DocumentService handles document uploads and lookups
type DocumentService interface {
	// Upload stores a document and attaches it to the folder named by its
	// metadata. Clashes by code or content return *domain.DuplicateDocumentError
	// unless Force is set.
	Upload(ctx context.Context, req *UploadDocumentRequest) (*UploadDocumentResult, error)

	// DecideDuplicate validates a duplicate decision and says how to proceed
	DecideDuplicate(ctx context.Context, req *DuplicateDecisionRequest) (*DuplicateDecisionResult, error)

	// GetDocument returns a document with its folders
	GetDocument(ctx context.Context, id string) (*DocumentDetails, error)

	// ListByFolder returns the documents attached to a folder
	ListByFolder(ctx context.Context, folderID string) (*FolderDocuments, error)

	// OpenFile opens the stored upload of a document. The caller closes Content.
	OpenFile(ctx context.Context, id string) (*DocumentFile, error)
}
