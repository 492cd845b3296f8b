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

// PostgresLanguageRepository implements the LanguageRepository interface
type PostgresLanguageRepository struct {
	pool *pgxpool.Pool
}

// NewLanguageRepository creates a new language repository
func NewLanguageRepository(config *postgres.RepositoryConfig) docsysRepo.LanguageRepository {
	return &PostgresLanguageRepository{
		pool: config.Pool,
	}
}

// FindByName retrieves the languages of a version with the given name
func (r *PostgresLanguageRepository) FindByName(ctx context.Context, versionID int64, name string) ([]models.Language, error) {
	query := `
		SELECT id, version_id, name, uuid, created_at
		FROM languages
		WHERE version_id = $1 AND name = $2
		ORDER BY id
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, versionID, name)
	if err != nil {
		return nil, fmt.Errorf("find language: %w", err)
	}
	defer rows.Close()

	return scanLanguages(rows)
}

// ExistsByUUID reports whether a language already uses uuid
func (r *PostgresLanguageRepository) ExistsByUUID(ctx context.Context, uuid string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM languages WHERE uuid = $1)`

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, uuid).Scan(&exists); err != nil {
		return false, fmt.Errorf("check language uuid: %w", err)
	}
	return exists, nil
}

// Create inserts a language
func (r *PostgresLanguageRepository) Create(ctx context.Context, language *models.Language) error {
	query := `
		INSERT INTO languages (version_id, name, uuid, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		language.VersionID,
		language.Name,
		language.UUID,
		language.CreatedAt,
	).Scan(&language.ID, &language.CreatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("language '%s' or uuid %s already exists", language.Name, language.UUID),
				ResourceType: "language",
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("version %d: %w", language.VersionID, domain.ErrNotFound)
		}
		return fmt.Errorf("create language: %w", err)
	}

	return nil
}

// List retrieves all languages ordered by ID
func (r *PostgresLanguageRepository) List(ctx context.Context) ([]models.Language, error) {
	query := `
		SELECT id, version_id, name, uuid, created_at
		FROM languages
		ORDER BY id
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	return scanLanguages(rows)
}
