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

// SQLiteLanguageRepository implements the LanguageRepository interface
type SQLiteLanguageRepository struct {
	db *sql.DB
}

// NewLanguageRepository creates a new language repository
func NewLanguageRepository(config *sqlite.RepositoryConfig) docsysRepo.LanguageRepository {
	return &SQLiteLanguageRepository{db: config.DB}
}

// FindByName retrieves the languages of a version with the given name
func (r *SQLiteLanguageRepository) FindByName(ctx context.Context, versionID int64, name string) ([]models.Language, error) {
	query := `SELECT id, version_id, name, uuid, created_at FROM languages WHERE version_id = ? AND name = ? ORDER BY id`

	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, versionID, name)
	if err != nil {
		return nil, fmt.Errorf("find language: %w", err)
	}
	defer rows.Close()

	return scanLanguages(rows)
}

// ExistsByUUID reports whether a language already uses uuid
func (r *SQLiteLanguageRepository) ExistsByUUID(ctx context.Context, uuid string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM languages WHERE uuid = ?)`

	var exists bool
	if err := sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, uuid).Scan(&exists); err != nil {
		return false, fmt.Errorf("check language uuid: %w", err)
	}
	return exists, nil
}

// Create inserts a language
func (r *SQLiteLanguageRepository) Create(ctx context.Context, language *models.Language) error {
	query := `INSERT INTO languages (version_id, name, uuid, created_at) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING RETURNING id`

	err := sqlite.GetExecutor(ctx, r.db).
		QueryRowContext(ctx, query, language.VersionID, language.Name, language.UUID, language.CreatedAt).
		Scan(&language.ID)

	if err != nil {
		if sqlite.IsNoRowsError(err) || sqlite.IsUniqueError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("language '%s' or uuid %s already exists", language.Name, language.UUID),
				ResourceType: "language",
			}
		}
		if sqlite.IsForeignKeyError(err) {
			return fmt.Errorf("version %d: %w", language.VersionID, domain.ErrNotFound)
		}
		return fmt.Errorf("create language: %w", err)
	}

	return nil
}

// List retrieves all languages ordered by ID
func (r *SQLiteLanguageRepository) List(ctx context.Context) ([]models.Language, error) {
	query := `SELECT id, version_id, name, uuid, created_at FROM languages ORDER BY id`

	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	return scanLanguages(rows)
}
