package docsystem

import (
	"context"
	"strings"
	"testing"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHierarchy(store *memStore) docsysSvc.HierarchyService {
	languages := memLanguageRepo{store}
	return NewHierarchyService(
		memProjectRepo{store},
		memVersionRepo{store},
		languages,
		NewIdentifierAllocator(languages, discardLogger()),
		discardLogger(),
	)
}

func TestHierarchy_ResolveProject(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		seed        []string
		lookup      string
		allowCreate bool
		wantErr     error
		wantCount   int
	}{
		{name: "creates missing project", lookup: "acme", allowCreate: true, wantCount: 1},
		{name: "finds existing project", seed: []string{"acme"}, lookup: "acme", allowCreate: true, wantCount: 1},
		{name: "missing without create", lookup: "acme", wantErr: domain.ErrNotFound},
		{name: "empty name rejected", lookup: "", allowCreate: true, wantErr: domain.ErrValidation},
		{name: "slash rejected", lookup: "a/b", allowCreate: true, wantErr: domain.ErrValidation},
		{name: "backslash rejected", lookup: `a\b`, allowCreate: true, wantErr: domain.ErrValidation},
		{name: "too long rejected", lookup: strings.Repeat("x", models.MaxNameLength+1), allowCreate: true, wantErr: domain.ErrValidation},
		{name: "duplicate rows", seed: []string{"acme", "acme"}, lookup: "acme", wantErr: domain.ErrInconsistent, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			for _, name := range tt.seed {
				// bypass Create so the test can plant duplicates
				store.projects = append(store.projects, models.Project{ID: store.id(), Name: name})
			}
			svc := newTestHierarchy(store)

			project, err := svc.ResolveProject(ctx, tt.lookup, tt.allowCreate)

			projects, _, _ := store.counts()
			assert.Equal(t, tt.wantCount, projects)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, project)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lookup, project.Name)
			assert.NotZero(t, project.ID)
		})
	}
}

func TestHierarchy_InconsistencyIsAlsoConflict(t *testing.T) {
	store := newMemStore()
	store.projects = []models.Project{{ID: 1, Name: "acme"}, {ID: 2, Name: "acme"}}

	_, err := newTestHierarchy(store).ResolveProject(context.Background(), "acme", true)

	var inconsistency *domain.InconsistencyError
	require.ErrorAs(t, err, &inconsistency)
	assert.Equal(t, 2, inconsistency.Count)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestHierarchy_ResolveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestHierarchy(store)

	resolve := func() *models.Language {
		project, err := svc.ResolveProject(ctx, "acme", true)
		require.NoError(t, err)
		version, err := svc.ResolveVersion(ctx, project, "1.0", true)
		require.NoError(t, err)
		language, err := svc.ResolveLanguage(ctx, version, "en", true)
		require.NoError(t, err)
		return language
	}

	first := resolve()
	second := resolve()

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.UUID, second.UUID)
	assert.NotEmpty(t, first.UUID)

	projects, versions, languages := store.counts()
	assert.Equal(t, 1, projects)
	assert.Equal(t, 1, versions)
	assert.Equal(t, 1, languages)
}

func TestHierarchy_SameKeysUnderDifferentParents(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestHierarchy(store)

	acme, err := svc.ResolveProject(ctx, "acme", true)
	require.NoError(t, err)
	other, err := svc.ResolveProject(ctx, "other", true)
	require.NoError(t, err)

	v1, err := svc.ResolveVersion(ctx, acme, "1.0", true)
	require.NoError(t, err)
	v2, err := svc.ResolveVersion(ctx, other, "1.0", true)
	require.NoError(t, err)
	assert.NotEqual(t, v1.ID, v2.ID)

	l1, err := svc.ResolveLanguage(ctx, v1, "en", true)
	require.NoError(t, err)
	l2, err := svc.ResolveLanguage(ctx, v2, "en", true)
	require.NoError(t, err)
	assert.NotEqual(t, l1.UUID, l2.UUID)
}

func TestHierarchy_EmptyVersionAndLanguageAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newTestHierarchy(newMemStore())

	project, err := svc.ResolveProject(ctx, "acme", true)
	require.NoError(t, err)
	version, err := svc.ResolveVersion(ctx, project, "", true)
	require.NoError(t, err)
	language, err := svc.ResolveLanguage(ctx, version, "", true)
	require.NoError(t, err)

	assert.Equal(t, "", version.Number)
	assert.Equal(t, "", language.Name)
}

func TestHierarchy_RequiresPersistedParent(t *testing.T) {
	ctx := context.Background()
	svc := newTestHierarchy(newMemStore())

	_, err := svc.ResolveVersion(ctx, nil, "1.0", true)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ResolveVersion(ctx, &models.Project{Name: "acme"}, "1.0", true)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ResolveLanguage(ctx, &models.Version{Number: "1.0"}, "en", true)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHierarchy_InvalidLanguageDoesNotAllocate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	allocator := &countingAllocator{}
	svc := NewHierarchyService(memProjectRepo{store}, memVersionRepo{store}, memLanguageRepo{store}, allocator, discardLogger())

	project, err := svc.ResolveProject(ctx, "acme", true)
	require.NoError(t, err)
	version, err := svc.ResolveVersion(ctx, project, "1.0", true)
	require.NoError(t, err)

	_, err = svc.ResolveLanguage(ctx, version, "en/us", true)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "cannot create a valid language")
	assert.Zero(t, allocator.calls)
}

// racingProjectRepo simulates a concurrent writer inserting the same project
// between our lookup and our insert.
type racingProjectRepo struct {
	memProjectRepo
	races int
}

func (r *racingProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if r.races > 0 {
		r.races--
		winner := models.Project{Name: project.Name}
		if err := r.memProjectRepo.Create(ctx, &winner); err != nil {
			return err
		}
	}
	return r.memProjectRepo.Create(ctx, project)
}

func TestHierarchy_ConcurrentCreateFallsBackToLookup(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := &racingProjectRepo{memProjectRepo: memProjectRepo{store}, races: 1}
	svc := NewHierarchyService(repo, memVersionRepo{store}, memLanguageRepo{store}, &countingAllocator{}, discardLogger())

	project, err := svc.ResolveProject(ctx, "acme", true)
	require.NoError(t, err)
	assert.Equal(t, "acme", project.Name)

	projects, _, _ := store.counts()
	assert.Equal(t, 1, projects)
}

// alwaysConflictProjectRepo never finds and never inserts
type alwaysConflictProjectRepo struct {
	memProjectRepo
	creates int
}

func (r *alwaysConflictProjectRepo) Create(context.Context, *models.Project) error {
	r.creates++
	return &domain.ConflictError{Message: "project exists", ResourceType: "project"}
}

func TestHierarchy_ConflictRetriesAreBounded(t *testing.T) {
	store := newMemStore()
	repo := &alwaysConflictProjectRepo{memProjectRepo: memProjectRepo{store}}
	svc := NewHierarchyService(repo, memVersionRepo{store}, memLanguageRepo{store}, &countingAllocator{}, discardLogger())

	_, err := svc.ResolveProject(context.Background(), "acme", true)

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, maxCreateAttempts, repo.creates)
}

type countingAllocator struct {
	calls int
}

func (a *countingAllocator) Allocate(context.Context) (string, error) {
	a.calls++
	return "00000000-0000-4000-8000-00000000000" + string(rune('0'+a.calls%10)), nil
}
