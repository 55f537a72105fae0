// Package seed loads a sample structure and document so a fresh
// development database has something to browse.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"treelink/internal/domain"
	catalogSvc "treelink/internal/domain/services/catalog"
)

//go:embed samples/*.xml
var samples embed.FS

const (
	structureSample = "samples/company.xml"
	documentSample  = "samples/invoice.xml"
)

// Result summarizes what a seed run wrote
type Result struct {
	StructureID       string `json:"structure_id"`
	StructureName     string `json:"structure_name"`
	StructureExisted  bool   `json:"structure_existed"`
	FoldersCount      int    `json:"folders_processed"`
	DocumentID        string `json:"document_id,omitempty"`
	DocumentCode      string `json:"document_code"`
	DocumentDuplicate bool   `json:"document_duplicate"`
}

// Seeder imports the embedded samples through the regular services
type Seeder struct {
	imports   catalogSvc.ImportService
	documents catalogSvc.DocumentService
	logger    *slog.Logger
}

func NewSeeder(imports catalogSvc.ImportService, documents catalogSvc.DocumentService, logger *slog.Logger) *Seeder {
	return &Seeder{
		imports:   imports,
		documents: documents,
		logger:    logger,
	}
}

// Seed imports the sample structure and uploads the sample document into it.
// Running it twice is harmless: both uploads are recognized as duplicates.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	structureXML, err := samples.ReadFile(structureSample)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", structureSample, err)
	}
	documentXML, err := samples.ReadFile(documentSample)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", documentSample, err)
	}

	imported, err := s.imports.ImportStructure(ctx, &catalogSvc.ImportStructureRequest{
		Filename: "company.xml",
		Content:  structureXML,
	})
	if err != nil {
		return nil, fmt.Errorf("import sample structure: %w", err)
	}

	result := &Result{
		StructureID:      imported.StructureID,
		StructureName:    imported.StructureName,
		StructureExisted: imported.Duplicate,
		FoldersCount:     imported.FoldersCount,
	}
	s.logger.Info("sample structure ready",
		"structure_id", imported.StructureID,
		"duplicate", imported.Duplicate,
		"folders", imported.FoldersCount,
	)

	uploaded, err := s.documents.Upload(ctx, &catalogSvc.UploadDocumentRequest{
		StructureID: imported.StructureID,
		Filename:    "invoice.xml",
		Content:     documentXML,
	})
	var dup *domain.DuplicateDocumentError
	switch {
	case errors.As(err, &dup):
		result.DocumentCode = dup.ProposedCode
		result.DocumentDuplicate = true
		if len(dup.Candidates) > 0 {
			result.DocumentID = dup.Candidates[0].ID
		}
		s.logger.Info("sample document already stored", "code", dup.ProposedCode)
	case err != nil:
		return nil, fmt.Errorf("upload sample document: %w", err)
	default:
		result.DocumentID = uploaded.Document.ID
		result.DocumentCode = uploaded.Document.Code
		s.logger.Info("sample document stored",
			"document_id", uploaded.Document.ID,
			"folder", uploaded.Folder.Code,
		)
	}

	return result, nil
}
