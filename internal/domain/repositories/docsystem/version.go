package docsystem

import (
	"context"

	"github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

// VersionRepository defines data access operations for versions
type VersionRepository interface {
	// FindByNumber returns the versions of a project with the given number
	FindByNumber(ctx context.Context, projectID int64, number string) ([]docsystem.Version, error)

	// Create inserts a version and sets its ID.
	// Returns a *domain.ConflictError if (project, number) already exists.
	Create(ctx context.Context, version *docsystem.Version) error

	// List retrieves all versions ordered by ID
	List(ctx context.Context) ([]docsystem.Version, error)
}
