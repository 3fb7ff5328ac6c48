package repositories

import (
	"context"

	"github.com/Rello/domus-sub002/internal/core/domain"
)

// PropertyReader defines read operations for property data.
type PropertyReader interface {
	// FindPropertyForUser retrieves one property scoped to its owner.
	FindPropertyForUser(ctx context.Context, userID, propertyID string) (*domain.Property, error)

	// ListPropertiesByUser retrieves all properties of a user.
	ListPropertiesByUser(ctx context.Context, userID string) ([]domain.Property, error)
}

// PropertyWriter defines write operations for property data.
type PropertyWriter interface {
	// SaveProperty persists a new property.
	SaveProperty(ctx context.Context, property domain.Property) error
}

// UnitReader defines read operations for unit data.
type UnitReader interface {
	// FindUnitForUser retrieves one unit scoped to its owner.
	FindUnitForUser(ctx context.Context, userID, unitID string) (*domain.Unit, error)

	// ListUnitsByProperty retrieves a property's units in stable name order.
	// The allocation engine relies on this order for deterministic
	// remainder assignment.
	ListUnitsByProperty(ctx context.Context, userID, propertyID string) ([]domain.Unit, error)
}

// UnitWriter defines write operations for unit data.
type UnitWriter interface {
	// SaveUnit persists a new unit.
	SaveUnit(ctx context.Context, unit domain.Unit) error
}

// PropertyRepositoryFacade combines property and unit repositories.
type PropertyRepositoryFacade interface {
	PropertyReader
	PropertyWriter
	UnitReader
	UnitWriter
}
