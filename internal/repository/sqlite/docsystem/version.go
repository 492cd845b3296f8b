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

// SQLiteVersionRepository implements the VersionRepository interface
type SQLiteVersionRepository struct {
	db *sql.DB
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *sqlite.RepositoryConfig) docsysRepo.VersionRepository {
	return &SQLiteVersionRepository{db: config.DB}
}

// FindByNumber retrieves the versions of a project with the given number
func (r *SQLiteVersionRepository) FindByNumber(ctx context.Context, projectID int64, number string) ([]models.Version, error) {
	query := `SELECT id, project_id, number, created_at FROM versions WHERE project_id = ? AND number = ? ORDER BY id`

	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, projectID, number)
	if err != nil {
		return nil, fmt.Errorf("find version: %w", err)
	}
	defer rows.Close()

	return scanVersions(rows)
}

// Create inserts a version
func (r *SQLiteVersionRepository) Create(ctx context.Context, version *models.Version) error {
	query := `INSERT INTO versions (project_id, number, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING RETURNING id`

	err := sqlite.GetExecutor(ctx, r.db).
		QueryRowContext(ctx, query, version.ProjectID, version.Number, version.CreatedAt).
		Scan(&version.ID)

	if err != nil {
		if sqlite.IsNoRowsError(err) || sqlite.IsUniqueError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version '%s' already exists", version.Number),
				ResourceType: "version",
			}
		}
		if sqlite.IsForeignKeyError(err) {
			return fmt.Errorf("project %d: %w", version.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// List retrieves all versions ordered by ID
func (r *SQLiteVersionRepository) List(ctx context.Context) ([]models.Version, error) {
	query := `SELECT id, project_id, number, created_at FROM versions ORDER BY id`

	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	return scanVersions(rows)
}
