package docsystem

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	docsysRepo "github.com/jonatjano/HostMyDocs/internal/domain/repositories/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/repository/sqlite"
)

// SQLiteProjectRepository implements the ProjectRepository interface
type SQLiteProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *sqlite.RepositoryConfig) docsysRepo.ProjectRepository {
	return &SQLiteProjectRepository{db: config.DB}
}

// FindByName retrieves the projects with the given name
func (r *SQLiteProjectRepository) FindByName(ctx context.Context, name string) ([]models.Project, error) {
	query := `SELECT id, name, created_at FROM projects WHERE name = ? ORDER BY id`

	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// Create inserts a project
func (r *SQLiteProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `INSERT INTO projects (name, created_at) VALUES (?, ?) ON CONFLICT DO NOTHING RETURNING id`

	err := sqlite.GetExecutor(ctx, r.db).
		QueryRowContext(ctx, query, project.Name, project.CreatedAt).
		Scan(&project.ID)

	if err != nil {
		if sqlite.IsNoRowsError(err) || sqlite.IsUniqueError(err) {
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
func (r *SQLiteProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	query := `SELECT id, name, created_at FROM projects ORDER BY id`

	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}
