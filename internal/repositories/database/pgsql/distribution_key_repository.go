package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	"github.com/Rello/domus-sub002/internal/models"
	"github.com/Rello/domus-sub002/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDistributionKeyRepository struct {
	BaseRepository
}

// newPgxDistributionKeyRepository creates a new repository for distribution
// keys and their per-unit value entries.
func newPgxDistributionKeyRepository(pool *pgxpool.Pool) portsrepo.DistributionKeyRepositoryFacade {
	return &PgxDistributionKeyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDistributionKeyRepository implements portsrepo.DistributionKeyRepositoryFacade
var _ portsrepo.DistributionKeyRepositoryFacade = (*PgxDistributionKeyRepository)(nil)

const keyColumns = `key_id, user_id, property_id, type, name, config, valid_from, valid_to,
	created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, key_id, unit_id, value, valid_from, valid_to,
	created_at, created_by, last_updated_at, last_updated_by`

func scanKey(row pgx.Row) (models.DistributionKey, error) {
	var m models.DistributionKey
	err := row.Scan(
		&m.KeyID,
		&m.UserID,
		&m.PropertyID,
		&m.Type,
		&m.Name,
		&m.Config,
		&m.ValidFrom,
		&m.ValidTo,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanEntry(row pgx.Row) (models.DistributionKeyUnit, error) {
	var m models.DistributionKeyUnit
	err := row.Scan(
		&m.EntryID,
		&m.KeyID,
		&m.UnitID,
		&m.Value,
		&m.ValidFrom,
		&m.ValidTo,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveKey persists a new distribution key.
func (r *PgxDistributionKeyRepository) SaveKey(ctx context.Context, key domain.DistributionKey) error {
	m, err := mapping.ToModelDistributionKey(key)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO distribution_keys (` + keyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.KeyID,
		m.UserID,
		m.PropertyID,
		m.Type,
		m.Name,
		m.Config,
		m.ValidFrom,
		m.ValidTo,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: distribution key %s already exists", apperrors.ErrDuplicate, m.KeyID)
		}
		return apperrors.NewAppError(500, "failed to save distribution key "+m.KeyID, err)
	}
	return nil
}

// FindKeyForUser retrieves one key scoped to its owner.
func (r *PgxDistributionKeyRepository) FindKeyForUser(ctx context.Context, userID, keyID string) (*domain.DistributionKey, error) {
	query := `
		SELECT ` + keyColumns + `
		FROM distribution_keys
		WHERE key_id = $1 AND user_id = $2;
	`
	m, err := scanKey(r.Pool.QueryRow(ctx, query, keyID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find distribution key "+keyID, err)
	}

	domainKey, err := mapping.ToDomainDistributionKey(m)
	if err != nil {
		return nil, err
	}
	return &domainKey, nil
}

// ListKeysByProperty retrieves all keys configured for a property.
func (r *PgxDistributionKeyRepository) ListKeysByProperty(ctx context.Context, userID, propertyID string) ([]domain.DistributionKey, error) {
	query := `
		SELECT ` + keyColumns + `
		FROM distribution_keys
		WHERE user_id = $1 AND property_id = $2
		ORDER BY name, key_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query distribution keys for property "+propertyID, err)
	}
	defer rows.Close()

	modelKeys := []models.DistributionKey{}
	for rows.Next() {
		m, err := scanKey(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan distribution key row", err)
		}
		modelKeys = append(modelKeys, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating distribution key rows", err)
	}

	return mapping.ToDomainDistributionKeySlice(modelKeys)
}

// DeleteKey removes a key and its per-unit entries in one transaction.
func (r *PgxDistributionKeyRepository) DeleteKey(ctx context.Context, userID, keyID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM distribution_key_units WHERE key_id = $1;`, keyID); err != nil {
		return apperrors.NewAppError(500, "failed to delete entries of key "+keyID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM distribution_keys WHERE key_id = $1 AND user_id = $2;`, keyID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete distribution key "+keyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// SaveEntry persists a new per-unit value entry.
func (r *PgxDistributionKeyRepository) SaveEntry(ctx context.Context, entry domain.DistributionKeyUnit) error {
	m := mapping.ToModelDistributionKeyUnit(entry)

	query := `
		INSERT INTO distribution_key_units (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EntryID,
		m.KeyID,
		m.UnitID,
		m.Value,
		m.ValidFrom,
		m.ValidTo,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save key entry "+m.EntryID, err)
	}
	return nil
}

// FindValidForKey retrieves the entries of a key whose validity window
// overlaps [from, to]. Open-ended windows (NULL bounds) always overlap on
// that side.
func (r *PgxDistributionKeyRepository) FindValidForKey(ctx context.Context, keyID string, from, to time.Time) ([]domain.DistributionKeyUnit, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM distribution_key_units
		WHERE key_id = $1
		  AND (valid_from IS NULL OR valid_from <= $3)
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY unit_id, valid_from NULLS FIRST, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, keyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query valid entries of key "+keyID, err)
	}
	return r.collectEntries(rows)
}

// ListEntriesByKey retrieves all entries of a key, newest validFrom first.
func (r *PgxDistributionKeyRepository) ListEntriesByKey(ctx context.Context, keyID string) ([]domain.DistributionKeyUnit, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM distribution_key_units
		WHERE key_id = $1
		ORDER BY valid_from DESC NULLS LAST, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, keyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries of key "+keyID, err)
	}
	return r.collectEntries(rows)
}

func (r *PgxDistributionKeyRepository) collectEntries(rows pgx.Rows) ([]domain.DistributionKeyUnit, error) {
	defer rows.Close()

	modelEntries := []models.DistributionKeyUnit{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan key entry row", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating key entry rows", err)
	}
	return mapping.ToDomainDistributionKeyUnitSlice(modelEntries), nil
}
