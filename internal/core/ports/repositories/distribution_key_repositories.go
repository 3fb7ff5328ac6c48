package repositories

import (
	"context"
	"time"

	"github.com/Rello/domus-sub002/internal/core/domain"
)

// DistributionKeyReader defines read operations for distribution keys.
type DistributionKeyReader interface {
	// FindKeyForUser retrieves one key scoped to its owner.
	FindKeyForUser(ctx context.Context, userID, keyID string) (*domain.DistributionKey, error)

	// ListKeysByProperty retrieves all keys configured for a property.
	ListKeysByProperty(ctx context.Context, userID, propertyID string) ([]domain.DistributionKey, error)
}

// DistributionKeyWriter defines write operations for distribution keys.
type DistributionKeyWriter interface {
	// SaveKey persists a new distribution key.
	SaveKey(ctx context.Context, key domain.DistributionKey) error

	// DeleteKey removes a key and its per-unit entries.
	DeleteKey(ctx context.Context, userID, keyID string) error
}

// DistributionKeyUnitReader defines temporal reads of per-unit value entries.
type DistributionKeyUnitReader interface {
	// FindValidForKey retrieves the entries of a key whose validity window
	// overlaps [from, to].
	FindValidForKey(ctx context.Context, keyID string, from, to time.Time) ([]domain.DistributionKeyUnit, error)

	// ListEntriesByKey retrieves all entries of a key, newest validFrom first.
	ListEntriesByKey(ctx context.Context, keyID string) ([]domain.DistributionKeyUnit, error)
}

// DistributionKeyUnitWriter appends per-unit value entries. Entries are never
// mutated after period-based reads, only appended.
type DistributionKeyUnitWriter interface {
	// SaveEntry persists a new per-unit value entry.
	SaveEntry(ctx context.Context, entry domain.DistributionKeyUnit) error
}

// DistributionKeyRepositoryFacade combines key and key-unit repositories.
type DistributionKeyRepositoryFacade interface {
	DistributionKeyReader
	DistributionKeyWriter
	DistributionKeyUnitReader
	DistributionKeyUnitWriter
}
