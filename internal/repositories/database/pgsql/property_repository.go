package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	"github.com/Rello/domus-sub002/internal/models"
	"github.com/Rello/domus-sub002/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPropertyRepository struct {
	BaseRepository
}

// newPgxPropertyRepository creates a new repository for property and unit data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyRepositoryFacade {
	return &PgxPropertyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPropertyRepository implements portsrepo.PropertyRepositoryFacade
var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

const propertyColumns = `property_id, user_id, name, address, created_at, created_by, last_updated_at, last_updated_by`

const unitColumns = `unit_id, user_id, property_id, name, living_area, created_at, created_by, last_updated_at, last_updated_by`

// SaveProperty persists a new property.
func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	m := mapping.ToModelProperty(property)

	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PropertyID,
		m.UserID,
		m.Name,
		m.Address,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: property %s already exists", apperrors.ErrDuplicate, m.PropertyID)
		}
		return apperrors.NewAppError(500, "failed to save property "+m.PropertyID, err)
	}
	return nil
}

// FindPropertyForUser retrieves one property scoped to its owner.
func (r *PgxPropertyRepository) FindPropertyForUser(ctx context.Context, userID, propertyID string) (*domain.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE property_id = $1 AND user_id = $2;
	`
	var m models.Property
	err := r.Pool.QueryRow(ctx, query, propertyID, userID).Scan(
		&m.PropertyID,
		&m.UserID,
		&m.Name,
		&m.Address,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find property "+propertyID, err)
	}

	domainProperty := mapping.ToDomainProperty(m)
	return &domainProperty, nil
}

// ListPropertiesByUser retrieves all properties of a user.
func (r *PgxPropertyRepository) ListPropertiesByUser(ctx context.Context, userID string) ([]domain.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE user_id = $1
		ORDER BY name, property_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query properties for user "+userID, err)
	}
	defer rows.Close()

	modelProperties := []models.Property{}
	for rows.Next() {
		var m models.Property
		err := rows.Scan(
			&m.PropertyID,
			&m.UserID,
			&m.Name,
			&m.Address,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan property row", err)
		}
		modelProperties = append(modelProperties, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating property rows", err)
	}

	return mapping.ToDomainPropertySlice(modelProperties), nil
}

// SaveUnit persists a new unit.
func (r *PgxPropertyRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)

	query := `
		INSERT INTO units (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UnitID,
		m.UserID,
		m.PropertyID,
		m.Name,
		m.LivingArea,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: unit %s already exists", apperrors.ErrDuplicate, m.UnitID)
		}
		return apperrors.NewAppError(500, "failed to save unit "+m.UnitID, err)
	}
	return nil
}

// FindUnitForUser retrieves one unit scoped to its owner.
func (r *PgxPropertyRepository) FindUnitForUser(ctx context.Context, userID, unitID string) (*domain.Unit, error) {
	query := `
		SELECT ` + unitColumns + `
		FROM units
		WHERE unit_id = $1 AND user_id = $2;
	`
	var m models.Unit
	err := r.Pool.QueryRow(ctx, query, unitID, userID).Scan(
		&m.UnitID,
		&m.UserID,
		&m.PropertyID,
		&m.Name,
		&m.LivingArea,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find unit "+unitID, err)
	}

	domainUnit := mapping.ToDomainUnit(m)
	return &domainUnit, nil
}

// ListUnitsByProperty retrieves a property's units in stable name order. The
// allocation engine relies on this order for deterministic remainder
// assignment.
func (r *PgxPropertyRepository) ListUnitsByProperty(ctx context.Context, userID, propertyID string) ([]domain.Unit, error) {
	query := `
		SELECT ` + unitColumns + `
		FROM units
		WHERE user_id = $1 AND property_id = $2
		ORDER BY name, unit_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query units for property "+propertyID, err)
	}
	defer rows.Close()

	modelUnits := []models.Unit{}
	for rows.Next() {
		var m models.Unit
		err := rows.Scan(
			&m.UnitID,
			&m.UserID,
			&m.PropertyID,
			&m.Name,
			&m.LivingArea,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unit row", err)
		}
		modelUnits = append(modelUnits, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unit rows", err)
	}

	return mapping.ToDomainUnitSlice(modelUnits), nil
}
