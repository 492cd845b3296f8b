package docsystem

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	docsysRepo "github.com/jonatjano/HostMyDocs/internal/domain/repositories/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/repository/postgres"
)

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool *pgxpool.Pool
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *postgres.RepositoryConfig) docsysRepo.VersionRepository {
	return &PostgresVersionRepository{
		pool: config.Pool,
	}
}

// FindByNumber retrieves the versions of a project with the given number
func (r *PostgresVersionRepository) FindByNumber(ctx context.Context, projectID int64, number string) ([]models.Version, error) {
	query := `
		SELECT id, project_id, number, created_at
		FROM versions
		WHERE project_id = $1 AND number = $2
		ORDER BY id
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID, number)
	if err != nil {
		return nil, fmt.Errorf("find version: %w", err)
	}
	defer rows.Close()

	return scanVersions(rows)
}

// Create inserts a version
func (r *PostgresVersionRepository) Create(ctx context.Context, version *models.Version) error {
	query := `
		INSERT INTO versions (project_id, number, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.ProjectID,
		version.Number,
		version.CreatedAt,
	).Scan(&version.ID, &version.CreatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version '%s' already exists", version.Number),
				ResourceType: "version",
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("project %d: %w", version.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// List retrieves all versions ordered by ID
func (r *PostgresVersionRepository) List(ctx context.Context) ([]models.Version, error) {
	query := `
		SELECT id, project_id, number, created_at
		FROM versions
		ORDER BY id
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	return scanVersions(rows)
}
