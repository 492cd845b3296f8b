package docsystem

import (
	"context"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

// ListingService assembles the full Project → Version → Language tree
type ListingService interface {
	// ListAll returns every project with its versions and languages resolved eagerly
	ListAll(ctx context.Context) ([]models.ProjectView, error)

	// Snapshot returns the serialized listing and its ETag, using the cache when possible
	Snapshot(ctx context.Context) (*models.ListingSnapshot, error)
}

// ListingCache stores the latest listing snapshot.
// Ingestion invalidates it so the next Snapshot rebuilds from the store.
//
// Every invalidation bumps a generation counter. A snapshot built from a store
// read that started at generation g is stored only while the counter is still g,
// so a listing read before an ingestion can never be cached after it.
type ListingCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context) (*models.ListingSnapshot, bool, error)
	// Set stores snapshot unless the generation moved past generation.
	// A skipped write is not an error.
	Set(ctx context.Context, snapshot *models.ListingSnapshot, generation int64) error
	Invalidate(ctx context.Context) error
}
