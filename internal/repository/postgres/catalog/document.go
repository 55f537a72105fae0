package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"treelink/internal/domain"
	models "treelink/internal/domain/models/catalog"
	catalogRepo "treelink/internal/domain/repositories/catalog"
	"treelink/internal/repository/postgres"
	"treelink/internal/utils"
)

const documentColumns = `id, code, name, metadata, source_filename, storage_path, file_size, file_hash, created_at, updated_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) catalogRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func documentDest(d *models.Document) []any {
	return []any{
		&d.ID,
		&d.Code,
		&d.Name,
		&d.Metadata,
		&d.SourceFilename,
		&d.StoragePath,
		&d.FileSize,
		&d.FileHash,
		&d.CreatedAt,
		&d.UpdatedAt,
	}
}

func scanDocument(row pgx.Row, d *models.Document) error {
	err := row.Scan(documentDest(d)...)
	if err == nil && d.Metadata == nil {
		d.Metadata = map[string]string{}
	}
	return err
}

// Create inserts a document
func (r *PostgresDocumentRepository) Create(ctx context.Context, d *models.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	if d.Metadata == nil {
		d.Metadata = map[string]string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Documents, documentColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		d.ID,
		d.Code,
		d.Name,
		d.Metadata,
		d.SourceFilename,
		d.StoragePath,
		d.FileSize,
		d.FileHash,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			conflict := &domain.ConflictError{
				Message:      fmt.Sprintf("document with code '%s' already exists", d.Code),
				ResourceType: "document",
			}
			if existingID, getErr := r.getExistingDocumentID(ctx, d.Code); getErr == nil {
				conflict.ResourceID = existingID
			}
			return conflict
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// getExistingDocumentID looks up the document holding code on the pool,
// outside the transaction the failed insert aborted
func (r *PostgresDocumentRepository) getExistingDocumentID(ctx context.Context, code string) (string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE code = $1`, r.tables.Documents)

	var id string
	if err := r.pool.QueryRow(ctx, query, code).Scan(&id); err != nil {
		return "", fmt.Errorf("get existing document ID: %w", err)
	}
	return id, nil
}

// Update overwrites name, metadata, stored file, size, digest and updated_at
func (r *PostgresDocumentRepository) Update(ctx context.Context, d *models.Document) error {
	if d.Metadata == nil {
		d.Metadata = map[string]string{}
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, metadata = $2, source_filename = $3, storage_path = $4,
		    file_size = $5, file_hash = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		d.Name,
		d.Metadata,
		d.SourceFilename,
		d.StoragePath,
		d.FileSize,
		d.FileHash,
		d.UpdatedAt,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("document", d.ID)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	var d models.Document
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, id), &d); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("document", id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &d, nil
}

// GetByCode retrieves a document by its code
func (r *PostgresDocumentRepository) GetByCode(ctx context.Context, code string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE code = $1`, documentColumns, r.tables.Documents)

	var d models.Document
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, code), &d); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("document", code)
		}
		return nil, fmt.Errorf("get document by code: %w", err)
	}

	return &d, nil
}

// FindDuplicates returns documents sharing the code or the digest
func (r *PostgresDocumentRepository) FindDuplicates(ctx context.Context, code, hash string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE code = $1 OR file_hash = $2
		ORDER BY created_at, id
	`, documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, code, hash)
	if err != nil {
		return nil, fmt.Errorf("find duplicate documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// Attach links a document to a folder if not linked yet
func (r *PostgresDocumentRepository) Attach(ctx context.Context, folderID, documentID string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, document_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (folder_id, document_id) DO NOTHING
	`, r.tables.FolderDocuments)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, documentID, time.Now().UTC())
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return false, domain.NewNotFound("folder", folderID)
		}
		return false, fmt.Errorf("attach document: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// ListFolders returns the folders a document is attached to
func (r *PostgresDocumentRepository) ListFolders(ctx context.Context, documentID string) ([]models.DocumentFolder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.code, f.name, f.structure_id, s.name, fd.created_at
		FROM %s fd
		JOIN %s f ON f.id = fd.folder_id
		JOIN %s s ON s.id = f.structure_id
		WHERE fd.document_id = $1
		ORDER BY fd.created_at, f.id
	`, r.tables.FolderDocuments, r.tables.Folders, r.tables.Structures)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document folders: %w", err)
	}
	defer rows.Close()

	folders := []models.DocumentFolder{}
	for rows.Next() {
		var f models.DocumentFolder
		if err := rows.Scan(&f.ID, &f.Code, &f.Name, &f.StructureID, &f.StructureName, &f.AttachedAt); err != nil {
			return nil, fmt.Errorf("scan document folder: %w", err)
		}
		folders = append(folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document folders: %w", err)
	}

	return folders, nil
}

// ListByFolder returns the documents attached to a folder
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID string) ([]models.AttachedDocument, error) {
	query := fmt.Sprintf(`
		SELECT d.id, d.code, d.name, d.metadata, d.source_filename, d.storage_path,
		       d.file_size, d.file_hash, d.created_at, d.updated_at, fd.created_at
		FROM %s fd
		JOIN %s d ON d.id = fd.document_id
		WHERE fd.folder_id = $1
		ORDER BY fd.created_at, d.id
	`, r.tables.FolderDocuments, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder documents: %w", err)
	}
	defer rows.Close()

	docs := []models.AttachedDocument{}
	for rows.Next() {
		var a models.AttachedDocument
		dest := append(documentDest(&a.Document), &a.AttachedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan folder document: %w", err)
		}
		if a.Metadata == nil {
			a.Metadata = map[string]string{}
		}
		docs = append(docs, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder documents: %w", err)
	}

	return docs, nil
}

// Search matches code, name or metadata text and applies the filters
func (r *PostgresDocumentRepository) Search(ctx context.Context, filter models.SearchFilter) ([]models.DocumentHit, error) {
	limit := filter.Limit
	if limit <= 0 || limit > models.DocumentSearchLimit {
		limit = models.DocumentSearchLimit
	}

	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		p := arg(utils.ContainsPattern(filter.Query))
		conditions = append(conditions, fmt.Sprintf(
			`(d.code ILIKE %[1]s ESCAPE '\' OR d.name ILIKE %[1]s ESCAPE '\' OR d.metadata::text ILIKE %[1]s ESCAPE '\')`, p))
	}
	if filter.Hash != nil {
		conditions = append(conditions, "d.file_hash = "+arg(*filter.Hash))
	}
	if filter.FolderID != nil {
		conditions = append(conditions, fmt.Sprintf(
			`d.id IN (SELECT document_id FROM %s WHERE folder_id = %s)`,
			r.tables.FolderDocuments, arg(*filter.FolderID)))
	}
	if filter.StructureID != nil {
		conditions = append(conditions, fmt.Sprintf(
			`d.id IN (SELECT fd.document_id FROM %s fd JOIN %s f ON f.id = fd.folder_id WHERE f.structure_id = %s)`,
			r.tables.FolderDocuments, r.tables.Folders, arg(*filter.StructureID)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT d.id, d.code, d.name, d.file_size, d.file_hash, d.created_at
		FROM %s d
		%s
		ORDER BY d.created_at DESC, d.id
		LIMIT %s
	`, r.tables.Documents, where, arg(limit))

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	hits := []models.DocumentHit{}
	for rows.Next() {
		var h models.DocumentHit
		if err := rows.Scan(&h.ID, &h.Code, &h.Name, &h.FileSize, &h.FileHash, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document hit: %w", err)
		}
		hits = append(hits, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document hits: %w", err)
	}

	return hits, nil
}
