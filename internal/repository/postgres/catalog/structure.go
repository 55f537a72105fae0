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
)

const structureColumns = `id, name, description, created_at, updated_at, is_active, content_hash`

// PostgresStructureRepository implements the StructureRepository interface
type PostgresStructureRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewStructureRepository creates a new structure repository
func NewStructureRepository(config *postgres.RepositoryConfig) catalogRepo.StructureRepository {
	return &PostgresStructureRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanStructure(row pgx.Row, s *models.Structure) error {
	return row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.IsActive,
		&s.ContentHash,
	)
}

// Create inserts a structure
func (r *PostgresStructureRepository) Create(ctx context.Context, s *models.Structure) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Structures, structureColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.CreatedAt,
		s.UpdatedAt,
		s.IsActive,
		s.ContentHash,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) && s.ContentHash != nil {
			conflict := &domain.ConflictError{
				Message:      "structure with identical content already exists",
				ResourceType: "structure",
			}
			if existingID, getErr := r.getExistingStructureID(ctx, *s.ContentHash); getErr == nil {
				conflict.ResourceID = existingID
			}
			return conflict
		}
		return fmt.Errorf("create structure: %w", err)
	}

	return nil
}

// getExistingStructureID looks up the structure holding hash on the pool.
// A failed insert aborts the surrounding transaction, so the lookup cannot
// run on the executor from ctx.
func (r *PostgresStructureRepository) getExistingStructureID(ctx context.Context, hash string) (string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE content_hash = $1`, r.tables.Structures)

	var id string
	if err := r.pool.QueryRow(ctx, query, hash).Scan(&id); err != nil {
		return "", fmt.Errorf("get existing structure ID: %w", err)
	}
	return id, nil
}

// GetByID retrieves a structure by ID
func (r *PostgresStructureRepository) GetByID(ctx context.Context, id string) (*models.Structure, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, structureColumns, r.tables.Structures)

	var s models.Structure
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanStructure(executor.QueryRow(ctx, query, id), &s); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("structure", id)
		}
		return nil, fmt.Errorf("get structure: %w", err)
	}

	return &s, nil
}

// GetByContentHash retrieves the structure imported from identical bytes
func (r *PostgresStructureRepository) GetByContentHash(ctx context.Context, hash string) (*models.Structure, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE content_hash = $1`, structureColumns, r.tables.Structures)

	var s models.Structure
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanStructure(executor.QueryRow(ctx, query, hash), &s); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("structure", hash)
		}
		return nil, fmt.Errorf("get structure by hash: %w", err)
	}

	return &s, nil
}

// List retrieves structures ordered by created_at DESC
func (r *PostgresStructureRepository) List(ctx context.Context, activeOnly bool) ([]models.Structure, error) {
	where := ""
	if activeOnly {
		where = "WHERE is_active"
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		%s
		ORDER BY created_at DESC, id
	`, structureColumns, r.tables.Structures, where)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list structures: %w", err)
	}
	defer rows.Close()

	structures := []models.Structure{}
	for rows.Next() {
		var s models.Structure
		if err := scanStructure(rows, &s); err != nil {
			return nil, fmt.Errorf("scan structure: %w", err)
		}
		structures = append(structures, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate structures: %w", err)
	}

	return structures, nil
}

// Update writes name, description, is_active and updated_at
func (r *PostgresStructureRepository) Update(ctx context.Context, s *models.Structure) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Structures)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, s.Name, s.Description, s.IsActive, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update structure: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("structure", s.ID)
	}

	return nil
}

// Delete removes a structure; folders and attachments cascade
func (r *PostgresStructureRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Structures)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete structure: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("structure", id)
	}

	return nil
}
