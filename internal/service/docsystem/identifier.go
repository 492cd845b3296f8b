package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	docsysRepo "github.com/jonatjano/HostMyDocs/internal/domain/repositories/docsystem"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"

	"github.com/google/uuid"
)

// maxAllocationAttempts bounds UUID generation. Random v4 UUIDs colliding even
// twice in a row points at a broken generator, not bad luck.
const maxAllocationAttempts = 8

// uuidAllocator implements IdentifierAllocator with random UUIDs checked against
// the language store. The uuid unique index remains the final guard.
type uuidAllocator struct {
	languageRepo docsysRepo.LanguageRepository
	newID        func() string
	logger       *slog.Logger
}

// NewIdentifierAllocator creates an allocator backed by github.com/google/uuid
func NewIdentifierAllocator(languageRepo docsysRepo.LanguageRepository, logger *slog.Logger) docsysSvc.IdentifierAllocator {
	return &uuidAllocator{
		languageRepo: languageRepo,
		newID:        uuid.NewString,
		logger:       logger,
	}
}

// Allocate returns a UUID unused at the time of the check
func (a *uuidAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		id := a.newID()

		exists, err := a.languageRepo.ExistsByUUID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check uuid %s: %w", id, err)
		}
		if !exists {
			return id, nil
		}

		a.logger.Warn("uuid already in use, generating another",
			"uuid", id,
			"attempt", attempt,
		)
	}

	return "", fmt.Errorf("allocate identifier: %d consecutive collisions", maxAllocationAttempts)
}
