package services

import (
	"context"

	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/dto"
)

// PropertySvcFacade manages properties and their units.
type PropertySvcFacade interface {
	// CreateProperty persists a new property for the user.
	CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, userID string) (*domain.Property, error)

	// GetProperty retrieves one property scoped to its owner.
	GetProperty(ctx context.Context, userID, propertyID string) (*domain.Property, error)

	// ListProperties retrieves all properties of a user.
	ListProperties(ctx context.Context, userID string) ([]domain.Property, error)

	// CreateUnit persists a new unit inside a property.
	CreateUnit(ctx context.Context, propertyID string, req dto.CreateUnitRequest, userID string) (*domain.Unit, error)

	// GetUnit retrieves one unit scoped to its owner.
	GetUnit(ctx context.Context, userID, unitID string) (*domain.Unit, error)

	// ListUnits retrieves a property's units in stable name order.
	ListUnits(ctx context.Context, userID, propertyID string) ([]domain.Unit, error)
}
