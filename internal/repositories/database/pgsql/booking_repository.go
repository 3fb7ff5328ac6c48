package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	"github.com/Rello/domus-sub002/internal/models"
	"github.com/Rello/domus-sub002/internal/utils/mapping"
	"github.com/Rello/domus-sub002/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBookingRepository struct {
	BaseRepository
}

// newPgxBookingRepository creates a new repository for booking data.
func newPgxBookingRepository(pool *pgxpool.Pool) portsrepo.BookingRepositoryFacade {
	return &PgxBookingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBookingRepository implements portsrepo.BookingRepositoryFacade
var _ portsrepo.BookingRepositoryFacade = (*PgxBookingRepository)(nil)

const bookingColumns = `booking_id, user_id, account_number, date, delivery_date, description, amount, year,
	property_id, unit_id, distribution_key_id, status, period_from, period_to, source_property_booking_id,
	created_at, created_by, last_updated_at, last_updated_by`

const bookingInsertQuery = `
	INSERT INTO bookings (` + bookingColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
`

func scanBooking(row pgx.Row) (models.Booking, error) {
	var m models.Booking
	err := row.Scan(
		&m.BookingID,
		&m.UserID,
		&m.AccountNumber,
		&m.Date,
		&m.DeliveryDate,
		&m.Description,
		&m.Amount,
		&m.Year,
		&m.PropertyID,
		&m.UnitID,
		&m.DistributionKeyID,
		&m.Status,
		&m.PeriodFrom,
		&m.PeriodTo,
		&m.SourcePropertyBookingID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func bookingInsertArgs(m models.Booking) []interface{} {
	return []interface{}{
		m.BookingID,
		m.UserID,
		m.AccountNumber,
		m.Date,
		m.DeliveryDate,
		m.Description,
		m.Amount,
		m.Year,
		m.PropertyID,
		m.UnitID,
		m.DistributionKeyID,
		m.Status,
		m.PeriodFrom,
		m.PeriodTo,
		m.SourcePropertyBookingID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func (r *PgxBookingRepository) collectBookings(rows pgx.Rows, contextMsg string) ([]domain.Booking, error) {
	defer rows.Close()

	modelBookings := []models.Booking{}
	for rows.Next() {
		m, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan booking row "+contextMsg, err)
		}
		modelBookings = append(modelBookings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating booking rows "+contextMsg, err)
	}
	return mapping.ToDomainBookingSlice(modelBookings), nil
}

// SaveBooking persists a new booking.
func (r *PgxBookingRepository) SaveBooking(ctx context.Context, booking domain.Booking) error {
	m := mapping.ToModelBooking(booking)
	_, err := r.Pool.Exec(ctx, bookingInsertQuery, bookingInsertArgs(m)...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert booking "+m.BookingID, err)
	}
	return nil
}

// FindBookingForUser retrieves one booking scoped to its owner.
func (r *PgxBookingRepository) FindBookingForUser(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_id = $1 AND user_id = $2;
	`
	m, err := scanBooking(r.Pool.QueryRow(ctx, query, bookingID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find booking "+bookingID, err)
	}

	domainBooking := mapping.ToDomainBooking(m)
	return &domainBooking, nil
}

// ListBookingsByUser retrieves a filtered, token-paginated list of a user's
// bookings, newest invoice date first with created_at as a tie-breaker.
func (r *PgxBookingRepository) ListBookingsByUser(ctx context.Context, userID string, filter portsrepo.BookingFilter, limit int, nextToken *string) ([]domain.Booking, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + bookingColumns + `
		FROM bookings
	`
	filterClause := `WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Year != 0 {
		args = append(args, filter.Year)
		filterClause += ` AND year = $` + strconv.Itoa(len(args))
	}
	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		filterClause += ` AND property_id = $` + strconv.Itoa(len(args))
	}
	if filter.UnitID != nil {
		args = append(args, *filter.UnitID)
		filterClause += ` AND unit_id = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison keeps the cursor stable across equal dates.
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query bookings for user "+userID, err)
	}
	defer rows.Close()

	modelBookings := make([]models.Booking, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanBooking(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan booking row for user "+userID, scanErr)
		}
		modelBookings = append(modelBookings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating booking rows for user "+userID, err)
	}

	var nextTokenVal *string
	results := modelBookings
	if len(modelBookings) > limit {
		lastBooking := modelBookings[limit-1]
		newToken := pagination.EncodeToken(lastBooking.Date, lastBooking.CreatedAt)
		nextTokenVal = &newToken
		results = modelBookings[:limit]
	}

	return mapping.ToDomainBookingSlice(results), nextTokenVal, nil
}

// FindBySourceProperty retrieves all child bookings created from the given
// property booking: the distribution shares and any reversal mirrors.
func (r *PgxBookingRepository) FindBySourceProperty(ctx context.Context, userID, sourceBookingID string) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND source_property_booking_id = $2
		ORDER BY created_at, booking_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, sourceBookingID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query child bookings of "+sourceBookingID, err)
	}
	return r.collectBookings(rows, "for source booking "+sourceBookingID)
}

// ListPropertyBookingsForYear retrieves a property's property-scoped bookings
// of one year, invoice date ascending.
func (r *PgxBookingRepository) ListPropertyBookingsForYear(ctx context.Context, userID, propertyID string, year int) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND property_id = $2 AND unit_id IS NULL AND year = $3
		ORDER BY date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, userID, propertyID, year)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query property bookings for "+propertyID, err)
	}
	return r.collectBookings(rows, "for property "+propertyID)
}

// ListUnitBookingsForYear retrieves a unit's bookings of one year, invoice
// date ascending.
func (r *PgxBookingRepository) ListUnitBookingsForYear(ctx context.Context, userID, unitID string, year int) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND unit_id = $2 AND year = $3
		ORDER BY date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, userID, unitID, year)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unit bookings for "+unitID, err)
	}
	return r.collectBookings(rows, "for unit "+unitID)
}

// UpdateBooking updates a draft booking's mutable fields.
func (r *PgxBookingRepository) UpdateBooking(ctx context.Context, booking domain.Booking) error {
	m := mapping.ToModelBooking(booking)

	query := `
		UPDATE bookings
		SET account_number = $2,
		    date = $3,
		    delivery_date = $4,
		    description = $5,
		    amount = $6,
		    year = $7,
		    distribution_key_id = $8,
		    period_from = $9,
		    period_to = $10,
		    last_updated_at = $11,
		    last_updated_by = $12
		WHERE booking_id = $1 AND status = $13;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.BookingID,
		m.AccountNumber,
		m.Date,
		m.DeliveryDate,
		m.Description,
		m.Amount,
		m.Year,
		m.DistributionKeyID,
		m.PeriodFrom,
		m.PeriodTo,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		models.BookingDraft,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update booking "+m.BookingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either gone or no longer a draft; the service resolves which.
		return apperrors.ErrConflict
	}
	return nil
}

// UpdateBookingStatus flips a booking's status, guarded by the expected
// current status so concurrent writers cannot double-transition.
func (r *PgxBookingRepository) UpdateBookingStatus(ctx context.Context, bookingID string, from, to domain.BookingStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bookings
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE booking_id = $1 AND status = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, bookingID, models.BookingStatus(to), updatedAt, updatedBy, models.BookingStatus(from))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of booking "+bookingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// DeleteBooking removes a draft booking.
func (r *PgxBookingRepository) DeleteBooking(ctx context.Context, userID, bookingID string) error {
	query := `
		DELETE FROM bookings
		WHERE booking_id = $1 AND user_id = $2 AND status = $3;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, bookingID, userID, models.BookingDraft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete booking "+bookingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveDistribution inserts the per-unit child bookings and moves the original
// property booking from draft to distributed, all in one transaction. The
// original's status is re-checked under lock so a concurrent distribution of
// the same booking surfaces as ErrConflict instead of duplicate children.
func (r *PgxBookingRepository) SaveDistribution(ctx context.Context, original domain.Booking, children []domain.Booking) error {
	return r.saveChildrenAndTransition(ctx, original, children, domain.BookingDraft, domain.BookingDistributed)
}

// SaveReversal inserts the negative mirror bookings and moves the original
// property booking from distributed to locked, all in one transaction.
func (r *PgxBookingRepository) SaveReversal(ctx context.Context, original domain.Booking, mirrors []domain.Booking) error {
	return r.saveChildrenAndTransition(ctx, original, mirrors, domain.BookingDistributed, domain.BookingLocked)
}

func (r *PgxBookingRepository) saveChildrenAndTransition(ctx context.Context, original domain.Booking, children []domain.Booking, from, to domain.BookingStatus) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored if the transaction commits.

	// 1. Lock the original row and re-check its status inside the transaction.
	var currentStatus models.BookingStatus
	lockQuery := `
		SELECT status FROM bookings
		WHERE booking_id = $1 AND user_id = $2
		FOR UPDATE;
	`
	err = tx.QueryRow(ctx, lockQuery, original.BookingID, original.UserID).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock booking "+original.BookingID, err)
	}
	if currentStatus != models.BookingStatus(from) {
		return apperrors.ErrConflict
	}

	// 2. Insert the child bookings as a batch.
	batch := &pgx.Batch{}
	for _, child := range children {
		m := mapping.ToModelBooking(child)
		batch.Queue(bookingInsertQuery, bookingInsertArgs(m)...)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert child bookings for "+original.BookingID, err)
	}

	// 3. Flip the original's status.
	statusQuery := `
		UPDATE bookings
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE booking_id = $1;
	`
	if _, err := tx.Exec(ctx, statusQuery, original.BookingID, models.BookingStatus(to), original.LastUpdatedAt, original.LastUpdatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to transition booking "+original.BookingID, err)
	}

	return r.Commit(ctx, tx)
}

// SumByAccount returns per-account amount sums for one year, grouped by
// property or unit scope. Locked property bookings are excluded: once a
// distribution is reversed, the shares and mirrors cancel and the original
// must not resurface in totals.
func (r *PgxBookingRepository) SumByAccount(ctx context.Context, userID string, year int, groupBy string, groupID string) (map[string]decimal.Decimal, error) {
	var scopeClause string
	switch groupBy {
	case "property":
		scopeClause = `property_id = $3 AND unit_id IS NULL AND status != 'LOCKED'`
	case "unit":
		scopeClause = `unit_id = $3`
	default:
		return nil, apperrors.NewAppError(400, "unsupported groupBy scope "+groupBy, nil)
	}

	query := `
		SELECT account_number, COALESCE(SUM(amount), 0)
		FROM bookings
		WHERE user_id = $1 AND year = $2 AND ` + scopeClause + `
		GROUP BY account_number;
	`
	rows, err := r.Pool.Query(ctx, query, userID, year, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum bookings by account", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var account string
		var sum decimal.Decimal
		if err := rows.Scan(&account, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account sum row", err)
		}
		sums[account] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account sum rows", err)
	}
	return sums, nil
}

// SumByUnitGroupedByYear returns, for one unit, per-account sums keyed by
// year across all years that have bookings.
func (r *PgxBookingRepository) SumByUnitGroupedByYear(ctx context.Context, userID, unitID string) (map[int]map[string]decimal.Decimal, error) {
	query := `
		SELECT year, account_number, COALESCE(SUM(amount), 0)
		FROM bookings
		WHERE user_id = $1 AND unit_id = $2
		GROUP BY year, account_number
		ORDER BY year;
	`
	rows, err := r.Pool.Query(ctx, query, userID, unitID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum unit bookings by year", err)
	}
	defer rows.Close()

	sums := make(map[int]map[string]decimal.Decimal)
	for rows.Next() {
		var year int
		var account string
		var sum decimal.Decimal
		if err := rows.Scan(&year, &account, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unit sum row", err)
		}
		if sums[year] == nil {
			sums[year] = make(map[string]decimal.Decimal)
		}
		sums[year][account] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unit sum rows", err)
	}
	return sums, nil
}
