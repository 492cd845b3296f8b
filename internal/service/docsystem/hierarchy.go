package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	docsysRepo "github.com/jonatjano/HostMyDocs/internal/domain/repositories/docsystem"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
)

// maxCreateAttempts bounds the insert-or-fetch loop. A conflicting insert means
// another request created the same key (or, for languages, took the same UUID)
// between our lookup and our insert, so the lookup is simply retried.
const maxCreateAttempts = 3

// hierarchyService implements the HierarchyService interface
type hierarchyService struct {
	projectRepo  docsysRepo.ProjectRepository
	versionRepo  docsysRepo.VersionRepository
	languageRepo docsysRepo.LanguageRepository
	allocator    docsysSvc.IdentifierAllocator
	logger       *slog.Logger
}

// NewHierarchyService creates a new hierarchy service
func NewHierarchyService(
	projectRepo docsysRepo.ProjectRepository,
	versionRepo docsysRepo.VersionRepository,
	languageRepo docsysRepo.LanguageRepository,
	allocator docsysSvc.IdentifierAllocator,
	logger *slog.Logger,
) docsysSvc.HierarchyService {
	return &hierarchyService{
		projectRepo:  projectRepo,
		versionRepo:  versionRepo,
		languageRepo: languageRepo,
		allocator:    allocator,
		logger:       logger,
	}
}

// ResolveProject finds the project named name, creating it if allowed
func (s *hierarchyService) ResolveProject(ctx context.Context, name string, allowCreate bool) (*models.Project, error) {
	find := func() ([]models.Project, error) {
		return s.projectRepo.FindByName(ctx, name)
	}

	create := func() (*models.Project, error) {
		project := &models.Project{
			Name:      name,
			CreatedAt: time.Now(),
		}
		if err := project.Validate(); err != nil {
			return nil, invalidEntity("project", err)
		}
		if err := s.projectRepo.Create(ctx, project); err != nil {
			return nil, err
		}

		s.logger.Info("project created",
			"id", project.ID,
			"name", project.Name,
		)
		return project, nil
	}

	return findOrCreate(s.logger, "project", name, find, allowCreate, create)
}

// ResolveVersion finds the version numbered number under project, creating it if allowed
func (s *hierarchyService) ResolveVersion(ctx context.Context, project *models.Project, number string, allowCreate bool) (*models.Version, error) {
	if project == nil || project.ID == 0 {
		return nil, domain.NewValidationError("cannot resolve version %q without a persisted project", number)
	}

	find := func() ([]models.Version, error) {
		return s.versionRepo.FindByNumber(ctx, project.ID, number)
	}

	create := func() (*models.Version, error) {
		version := &models.Version{
			ProjectID: project.ID,
			Number:    number,
			CreatedAt: time.Now(),
		}
		if err := version.Validate(); err != nil {
			return nil, invalidEntity("version", err)
		}
		if err := s.versionRepo.Create(ctx, version); err != nil {
			return nil, err
		}

		s.logger.Info("version created",
			"id", version.ID,
			"project_id", project.ID,
			"number", version.Number,
		)
		return version, nil
	}

	return findOrCreate(s.logger, "version", project.Name+"@"+number, find, allowCreate, create)
}

// ResolveLanguage finds the language named name under version, creating it with a
// fresh UUID if allowed
func (s *hierarchyService) ResolveLanguage(ctx context.Context, version *models.Version, name string, allowCreate bool) (*models.Language, error) {
	if version == nil || version.ID == 0 {
		return nil, domain.NewValidationError("cannot resolve language %q without a persisted version", name)
	}

	find := func() ([]models.Language, error) {
		return s.languageRepo.FindByName(ctx, version.ID, name)
	}

	create := func() (*models.Language, error) {
		// Reject a bad name before the allocator touches the store
		if err := models.ValidateLanguageName(name); err != nil {
			return nil, invalidEntity("language", fmt.Errorf("name: %w", err))
		}

		id, err := s.allocator.Allocate(ctx)
		if err != nil {
			return nil, err
		}

		language := &models.Language{
			VersionID: version.ID,
			Name:      name,
			UUID:      id,
			CreatedAt: time.Now(),
		}
		if err := language.Validate(); err != nil {
			return nil, invalidEntity("language", err)
		}
		if err := s.languageRepo.Create(ctx, language); err != nil {
			return nil, err
		}

		s.logger.Info("language created",
			"id", language.ID,
			"version_id", version.ID,
			"name", language.Name,
			"uuid", language.UUID,
		)
		return language, nil
	}

	return findOrCreate(s.logger, "language", fmt.Sprintf("%d/%s", version.ID, name), find, allowCreate, create)
}

// findOrCreate runs the lookup → create → re-lookup loop shared by every level.
func findOrCreate[T any](
	logger *slog.Logger,
	kind string,
	key string,
	find func() ([]T, error),
	allowCreate bool,
	create func() (*T, error),
) (*T, error) {
	for attempt := 1; ; attempt++ {
		matches, err := find()
		if err != nil {
			return nil, fmt.Errorf("find %s %q: %w", kind, key, err)
		}

		switch len(matches) {
		case 0:
		case 1:
			return &matches[0], nil
		default:
			logger.Error("store inconsistency: natural key matches several rows",
				"kind", kind,
				"key", key,
				"matches", len(matches),
			)
			return nil, &domain.InconsistencyError{ResourceType: kind, Key: key, Count: len(matches)}
		}

		if !allowCreate {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("%s %q not found", kind, key)}
		}

		created, err := create()
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxCreateAttempts {
			return nil, err
		}

		logger.Debug("concurrent create detected, retrying lookup",
			"kind", kind,
			"key", key,
			"attempt", attempt,
		)
	}
}

// invalidEntity wraps an entity validation failure
func invalidEntity(kind string, err error) error {
	return &domain.ValidationError{Message: fmt.Sprintf("cannot create a valid %s: %v", kind, err)}
}
