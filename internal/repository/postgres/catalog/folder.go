package catalog

import (
	"context"
	"fmt"
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

const folderColumns = `id, structure_id, code, name, parent_id, materialized_path, attributes, created_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) catalogRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFolder(row pgx.Row, f *models.Folder) error {
	err := row.Scan(
		&f.ID,
		&f.StructureID,
		&f.Code,
		&f.Name,
		&f.ParentID,
		&f.MaterializedPath,
		&f.Attributes,
		&f.CreatedAt,
	)
	if err == nil && f.Attributes == nil {
		f.Attributes = map[string]string{}
	}
	return err
}

// Create inserts a folder
func (r *PostgresFolderRepository) Create(ctx context.Context, f *models.Folder) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if f.Attributes == nil {
		f.Attributes = map[string]string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Folders, folderColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		f.ID,
		f.StructureID,
		f.Code,
		f.Name,
		f.ParentID,
		f.MaterializedPath,
		f.Attributes,
		f.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return domain.NewNotFound("structure", f.StructureID)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// Update writes name, materialized path and attributes
func (r *PostgresFolderRepository) Update(ctx context.Context, f *models.Folder) error {
	if f.Attributes == nil {
		f.Attributes = map[string]string{}
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, materialized_path = $2, attributes = $3
		WHERE id = $4
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, f.Name, f.MaterializedPath, f.Attributes, f.ID)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("folder", f.ID)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	var f models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFolder(executor.QueryRow(ctx, query, id), &f); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("folder", id)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &f, nil
}

// GetByCode retrieves the oldest folder with the code in a structure
func (r *PostgresFolderRepository) GetByCode(ctx context.Context, structureID, code string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE structure_id = $1 AND code = $2
		ORDER BY created_at, id
		LIMIT 1
	`, folderColumns, r.tables.Folders)

	var f models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFolder(executor.QueryRow(ctx, query, structureID, code), &f); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("folder", code)
		}
		return nil, fmt.Errorf("get folder by code: %w", err)
	}

	return &f, nil
}

// ListByStructure retrieves all folders of a structure (flat list)
func (r *PostgresFolderRepository) ListByStructure(ctx context.Context, structureID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE structure_id = $1
		ORDER BY materialized_path, code, id
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var f models.Folder
		if err := scanFolder(rows, &f); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Count returns the total and root-level folder counts of a structure
func (r *PostgresFolderRepository) Count(ctx context.Context, structureID string) (int, int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE parent_id IS NULL)
		FROM %s
		WHERE structure_id = $1
	`, r.tables.Folders)

	var total, roots int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, structureID).Scan(&total, &roots); err != nil {
		return 0, 0, fmt.Errorf("count folders: %w", err)
	}

	return total, roots, nil
}

// Search matches folder name or code case-insensitively
func (r *PostgresFolderRepository) Search(ctx context.Context, filter models.SearchFilter) ([]models.FolderHit, error) {
	limit := filter.Limit
	if limit <= 0 || limit > models.FolderSearchLimit {
		limit = models.FolderSearchLimit
	}

	query := fmt.Sprintf(`
		SELECT f.id, f.name, f.code, f.materialized_path, f.structure_id, s.name
		FROM %s f
		JOIN %s s ON s.id = f.structure_id
		WHERE (f.name ILIKE $1 ESCAPE '\' OR f.code ILIKE $1 ESCAPE '\')
		  AND ($2::uuid IS NULL OR f.structure_id = $2::uuid)
		ORDER BY s.name, f.materialized_path
		LIMIT $3
	`, r.tables.Folders, r.tables.Structures)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, utils.ContainsPattern(filter.Query), filter.StructureID, limit)
	if err != nil {
		return nil, fmt.Errorf("search folders: %w", err)
	}
	defer rows.Close()

	hits := []models.FolderHit{}
	for rows.Next() {
		var h models.FolderHit
		if err := rows.Scan(&h.ID, &h.Name, &h.Code, &h.MaterializedPath, &h.StructureID, &h.StructureName); err != nil {
			return nil, fmt.Errorf("scan folder hit: %w", err)
		}
		hits = append(hits, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder hits: %w", err)
	}

	return hits, nil
}
