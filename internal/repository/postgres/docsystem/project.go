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

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *postgres.RepositoryConfig) docsysRepo.ProjectRepository {
	return &PostgresProjectRepository{
		pool: config.Pool,
	}
}

// FindByName retrieves the projects with the given name
func (r *PostgresProjectRepository) FindByName(ctx context.Context, name string) ([]models.Project, error) {
	query := `
		SELECT id, name, created_at
		FROM projects
		WHERE name = $1
		ORDER BY id
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// Create inserts a project.
// A concurrent insert of the same name yields a ConflictError instead of
// aborting the surrounding transaction.
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (name, created_at)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.Name,
		project.CreatedAt,
	).Scan(&project.ID, &project.CreatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project '%s' already exists", project.Name),
				ResourceType: "project",
			}
		}
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// List retrieves all projects ordered by ID
func (r *PostgresProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	query := `
		SELECT id, name, created_at
		FROM projects
		ORDER BY id
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}
