package services

import (
	"context"

	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/dto"
)

// DistributionKeySvcFacade manages distribution keys and their per-unit
// value entries. Key configurations are parsed and validated on write;
// per-unit values are append-only.
type DistributionKeySvcFacade interface {
	// CreateKey validates and persists a new distribution key.
	CreateKey(ctx context.Context, propertyID string, req dto.CreateDistributionKeyRequest, userID string) (*domain.DistributionKey, error)

	// GetKey retrieves one key scoped to its owner.
	GetKey(ctx context.Context, userID, keyID string) (*domain.DistributionKey, error)

	// ListKeys retrieves all keys of a property.
	ListKeys(ctx context.Context, userID, propertyID string) ([]domain.DistributionKey, error)

	// DeleteKey removes a key and its entries.
	DeleteKey(ctx context.Context, userID, keyID string) error

	// AddUnitValue appends a per-unit value entry to a key.
	AddUnitValue(ctx context.Context, keyID string, req dto.CreateKeyUnitValueRequest, userID string) (*domain.DistributionKeyUnit, error)

	// ListUnitValues retrieves all entries of a key.
	ListUnitValues(ctx context.Context, userID, keyID string) ([]domain.DistributionKeyUnit, error)
}
