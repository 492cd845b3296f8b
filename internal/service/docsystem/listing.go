package docsystem

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	docsysRepo "github.com/jonatjano/HostMyDocs/internal/domain/repositories/docsystem"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/observability"
)

// listingService implements the ListingService interface
type listingService struct {
	projectRepo  docsysRepo.ProjectRepository
	versionRepo  docsysRepo.VersionRepository
	languageRepo docsysRepo.LanguageRepository
	paths        models.PathContext
	cache        docsysSvc.ListingCache
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewListingService creates a new listing service. cache may be nil.
func NewListingService(
	projectRepo docsysRepo.ProjectRepository,
	versionRepo docsysRepo.VersionRepository,
	languageRepo docsysRepo.LanguageRepository,
	paths models.PathContext,
	cache docsysSvc.ListingCache,
	metrics *observability.Metrics,
	logger *slog.Logger,
) docsysSvc.ListingService {
	if cache == nil {
		cache = noopListingCache{}
	}
	return &listingService{
		projectRepo:  projectRepo,
		versionRepo:  versionRepo,
		languageRepo: languageRepo,
		paths:        paths,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
	}
}

// ListAll builds the full tree in three passes over flat store listings
func (s *listingService) ListAll(ctx context.Context) ([]models.ProjectView, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	versions, err := s.versionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	languages, err := s.languageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}

	// First pass: render languages, grouped by version
	languagesByVersion := make(map[int64][]models.LanguageView)
	for _, language := range languages {
		languagesByVersion[language.VersionID] = append(languagesByVersion[language.VersionID], language.View(s.paths))
	}

	// Second pass: attach languages to versions, grouped by project
	versionsByProject := make(map[int64][]models.VersionView)
	for _, version := range versions {
		versionLanguages := languagesByVersion[version.ID]
		if versionLanguages == nil {
			versionLanguages = []models.LanguageView{}
		}
		versionsByProject[version.ProjectID] = append(versionsByProject[version.ProjectID], models.VersionView{
			Number:    version.Number,
			Languages: versionLanguages,
		})
	}

	// Third pass: attach versions to projects
	views := make([]models.ProjectView, 0, len(projects))
	for _, project := range projects {
		projectVersions := versionsByProject[project.ID]
		if projectVersions == nil {
			projectVersions = []models.VersionView{}
		}
		views = append(views, models.ProjectView{
			Name:     project.Name,
			Versions: projectVersions,
		})
	}

	s.logger.Debug("listing built",
		"project_count", len(projects),
		"version_count", len(versions),
		"language_count", len(languages),
	)

	return views, nil
}

// Snapshot returns the serialized listing, from cache when available
func (s *listingService) Snapshot(ctx context.Context) (*models.ListingSnapshot, error) {
	// Read before the store so an invalidation during the build voids our write
	generation, err := s.cache.Generation(ctx)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("listing cache generation read failed", "error", err)
	} else {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("listing cache read failed", "error", err)
		} else if ok {
			s.metrics.ObserveListingCache(true)
			return cached, nil
		}
	}
	s.metrics.ObserveListingCache(false)

	views, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(views)
	if err != nil {
		return nil, fmt.Errorf("encode listing: %w", err)
	}

	snapshot := &models.ListingSnapshot{
		Payload: payload,
		ETag:    ComputeETag(payload),
	}

	if cacheable {
		if err := s.cache.Set(ctx, snapshot, generation); err != nil {
			s.logger.Warn("listing cache write failed", "error", err)
		}
	}

	return snapshot, nil
}

// ComputeETag returns the hex MD5 of payload
func ComputeETag(payload []byte) string {
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

// noopListingCache is used when no cache is configured
type noopListingCache struct{}

func (noopListingCache) Generation(context.Context) (int64, error) { return 0, nil }
func (noopListingCache) Get(context.Context) (*models.ListingSnapshot, bool, error) {
	return nil, false, nil
}
func (noopListingCache) Set(context.Context, *models.ListingSnapshot, int64) error { return nil }
func (noopListingCache) Invalidate(context.Context) error { return nil }
