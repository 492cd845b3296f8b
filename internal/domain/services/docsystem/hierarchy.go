package docsystem

import (
	"context"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

// HierarchyService resolves Project → Version → Language with find-or-create semantics.
//
// Each Resolve* call looks the key up under its parent. When nothing matches and
// allowCreate is false it returns domain.ErrNotFound; when allowCreate is true the
// key is validated and a new entity is persisted. More than one match is reported
// as a *domain.InconsistencyError.
type HierarchyService interface {
	ResolveProject(ctx context.Context, name string, allowCreate bool) (*models.Project, error)
	ResolveVersion(ctx context.Context, project *models.Project, number string, allowCreate bool) (*models.Version, error)
	ResolveLanguage(ctx context.Context, version *models.Version, name string, allowCreate bool) (*models.Language, error)
}

// IdentifierAllocator hands out UUIDs that no persisted Language uses yet
type IdentifierAllocator interface {
	Allocate(ctx context.Context) (string, error)
}
