package docsystem

import (
	"context"

	"github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

// LanguageRepository defines data access operations for languages
type LanguageRepository interface {
	// FindByName returns the languages of a version with the given name
	FindByName(ctx context.Context, versionID int64, name string) ([]docsystem.Language, error)

	// ExistsByUUID reports whether any language already uses uuid
	ExistsByUUID(ctx context.Context, uuid string) (bool, error)

	// Create inserts a language and sets its ID.
	// Returns a *domain.ConflictError if (version, name) or uuid already exists.
	Create(ctx context.Context, language *docsystem.Language) error

	// List retrieves all languages ordered by ID
	List(ctx context.Context) ([]docsystem.Language, error)
}
