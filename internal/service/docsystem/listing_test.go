package docsystem

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
	docsysRepo "github.com/jonatjano/HostMyDocs/internal/domain/repositories/docsystem"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCache is an in-memory ListingCache that counts calls.
// Like the Redis cache, it drops writes built before the latest invalidation.
type recordingCache struct {
	mu            sync.Mutex
	snapshot      *models.ListingSnapshot
	generation    int64
	err           error
	gets          int
	sets          int
	staleSets     int
	invalidations int
}

func (c *recordingCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	return c.generation, nil
}

func (c *recordingCache) Get(context.Context) (*models.ListingSnapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	return c.snapshot, c.snapshot != nil, nil
}

func (c *recordingCache) Set(_ context.Context, snapshot *models.ListingSnapshot, generation int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.err != nil {
		return c.err
	}
	if generation != c.generation {
		c.staleSets++
		return nil
	}
	c.snapshot = snapshot
	return nil
}

func (c *recordingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	if c.err != nil {
		return c.err
	}
	c.snapshot = nil
	c.generation++
	return nil
}

var testPaths = models.PathContext{StorageRoot: "/data/docs", ArchiveRoot: "/data/archives"}

func newTestListing(store *memStore, cache docsysSvc.ListingCache) docsysSvc.ListingService {
	return NewListingService(memProjectRepo{store}, memVersionRepo{store}, memLanguageRepo{store},
		testPaths, cache, nil, discardLogger())
}

func seedListing(store *memStore) {
	store.projects = []models.Project{
		{ID: 1, Name: "acme"},
		{ID: 2, Name: "empty"},
	}
	store.versions = []models.Version{
		{ID: 10, ProjectID: 1, Number: "1.0"},
		{ID: 11, ProjectID: 1, Number: "2.0"},
	}
	store.languages = []models.Language{
		{ID: 100, VersionID: 10, Name: "en", UUID: "u-en"},
		{ID: 101, VersionID: 10, Name: "fr", UUID: "u-fr"},
	}
}

func TestListing_ListAll(t *testing.T) {
	store := newMemStore()
	seedListing(store)

	views, err := newTestListing(store, nil).ListAll(context.Background())
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "acme", views[0].Name)
	require.Len(t, views[0].Versions, 2)
	assert.Equal(t, "1.0", views[0].Versions[0].Number)
	assert.Equal(t, []models.LanguageView{
		{Name: "en", IndexPath: "/data/docs/u-en/index.html", ArchivePath: "/data/archives/u-en.zip"},
		{Name: "fr", IndexPath: "/data/docs/u-fr/index.html", ArchivePath: "/data/archives/u-fr.zip"},
	}, views[0].Versions[0].Languages)

	// empty children serialize as [] rather than null
	assert.NotNil(t, views[0].Versions[1].Languages)
	assert.Empty(t, views[0].Versions[1].Languages)
	assert.NotNil(t, views[1].Versions)
	assert.Empty(t, views[1].Versions)
}

func TestListing_SnapshotPayload(t *testing.T) {
	store := newMemStore()
	seedListing(store)

	snapshot, err := newTestListing(store, nil).Snapshot(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"name":"acme","versions":[
			{"number":"1.0","languages":[
				{"name":"en","indexPath":"/data/docs/u-en/index.html","archivePath":"/data/archives/u-en.zip"},
				{"name":"fr","indexPath":"/data/docs/u-fr/index.html","archivePath":"/data/archives/u-fr.zip"}
			]},
			{"number":"2.0","languages":[]}
		]},
		{"name":"empty","versions":[]}
	]`, string(snapshot.Payload))

	sum := md5.Sum(snapshot.Payload)
	assert.Equal(t, hex.EncodeToString(sum[:]), snapshot.ETag)
}

func TestListing_EmptyStore(t *testing.T) {
	snapshot, err := newTestListing(newMemStore(), nil).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(snapshot.Payload))
}

func TestListing_ETagTracksContent(t *testing.T) {
	store := newMemStore()
	seedListing(store)
	svc := newTestListing(store, nil)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	again, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ETag, again.ETag)

	store.languages = append(store.languages, models.Language{ID: 102, VersionID: 11, Name: "de", UUID: "u-de"})

	changed, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ETag, changed.ETag)
}

func TestListing_UsesCache(t *testing.T) {
	store := newMemStore()
	seedListing(store)
	cache := &recordingCache{}
	svc := newTestListing(store, cache)
	ctx := context.Background()

	built, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// changes are invisible until the cache is invalidated
	store.projects = append(store.projects, models.Project{ID: 3, Name: "late"})

	cached, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, built, cached)
	assert.Equal(t, 1, cache.sets)

	require.NoError(t, cache.Invalidate(ctx))
	rebuilt, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, built.ETag, rebuilt.ETag)
}

// stallingProjectRepo returns its first listing only once released, so an
// ingestion can commit between the store read and the cache write
type stallingProjectRepo struct {
	docsysRepo.ProjectRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (r *stallingProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	projects, err := r.ProjectRepository.List(ctx)
	r.once.Do(func() {
		close(r.read)
		<-r.release
	})
	return projects, err
}

func TestListing_IngestionDuringBuildIsNotMaskedByCache(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	projects := &stallingProjectRepo{
		ProjectRepository: memProjectRepo{f.store},
		read:              make(chan struct{}),
		release:           make(chan struct{}),
	}
	listing := NewListingService(projects, memVersionRepo{f.store}, memLanguageRepo{f.store},
		f.paths, f.cache, nil, discardLogger())

	type outcome struct {
		snapshot *models.ListingSnapshot
		err      error
	}
	building := make(chan outcome, 1)
	go func() {
		snapshot, err := listing.Snapshot(ctx)
		building <- outcome{snapshot, err}
	}()

	<-projects.read
	_, err := f.service().Ingest(ctx, &docsysSvc.IngestRequest{
		Name:     "acme",
		Version:  "1.0",
		Language: "en",
		Archive:  f.upload(t, docsArchive(t, f.dir)),
	})
	require.NoError(t, err)
	close(projects.release)

	stale := <-building
	require.NoError(t, stale.err)
	assert.Equal(t, "[]", string(stale.snapshot.Payload))
	assert.Equal(t, 1, f.cache.staleSets)

	fresh, err := listing.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(fresh.Payload), "acme")
	assert.NotEqual(t, stale.snapshot.ETag, fresh.ETag)

	cached, err := listing.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
}

func TestListing_CacheErrorsFallBackToStore(t *testing.T) {
	store := newMemStore()
	seedListing(store)
	cache := &recordingCache{err: errors.New("connection refused")}

	snapshot, err := newTestListing(store, cache).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(snapshot.Payload), "acme")
}

func TestComputeETag(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", ComputeETag(nil))
	assert.Equal(t, ComputeETag([]byte("[]")), ComputeETag([]byte("[]")))
}
