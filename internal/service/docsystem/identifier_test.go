package docsystem

import (
	"context"
	"testing"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestIdentifierAllocator_ReturnsValidUUID(t *testing.T) {
	store := newMemStore()
	allocator := NewIdentifierAllocator(memLanguageRepo{store}, discardLogger())

	id, err := allocator.Allocate(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestIdentifierAllocator_SkipsUUIDsInUse(t *testing.T) {
	store := newMemStore()
	store.languages = []models.Language{{ID: 1, VersionID: 1, Name: "en", UUID: "taken"}}

	allocator := &uuidAllocator{
		languageRepo: memLanguageRepo{store},
		newID:        sequence("taken", "taken", "fresh"),
		logger:       discardLogger(),
	}

	id, err := allocator.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", id)
}

func TestIdentifierAllocator_GivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newMemStore()
	store.languages = []models.Language{{ID: 1, VersionID: 1, Name: "en", UUID: "taken"}}

	calls := 0
	allocator := &uuidAllocator{
		languageRepo: memLanguageRepo{store},
		newID: func() string {
			calls++
			return "taken"
		},
		logger: discardLogger(),
	}

	_, err := allocator.Allocate(context.Background())
	require.Error(t, err)
	assert.Equal(t, maxAllocationAttempts, calls)
}
