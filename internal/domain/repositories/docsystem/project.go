package docsystem

import (
	"context"

	"github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// FindByName returns every project whose name matches exactly.
	// More than one result means the unique index has been bypassed.
	FindByName(ctx context.Context, name string) ([]docsystem.Project, error)

	// Create inserts a project and sets its ID.
	// Returns a *domain.ConflictError if the name is already taken.
	Create(ctx context.Context, project *docsystem.Project) error

	// List retrieves all projects ordered by ID
	List(ctx context.Context) ([]docsystem.Project, error)
}
