package repositories

import (
	"context"
	"time"

	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BookingFilter narrows booking listings. Zero/nil fields are ignored.
type BookingFilter struct {
	Year       int
	PropertyID *string
	UnitID     *string
}

// BookingReader defines read operations for booking data.
type BookingReader interface {
	// FindBookingForUser retrieves one booking scoped to its owner.
	FindBookingForUser(ctx context.Context, userID, bookingID string) (*domain.Booking, error)

	// ListBookingsByUser retrieves a filtered, token-paginated list of the
	// user's bookings, newest invoice date first.
	ListBookingsByUser(ctx context.Context, userID string, filter BookingFilter, limit int, nextToken *string) ([]domain.Booking, *string, error)

	// FindBySourceProperty retrieves all child bookings created from the
	// given property booking (distribution shares and reversal mirrors).
	FindBySourceProperty(ctx context.Context, userID, sourceBookingID string) ([]domain.Booking, error)

	// ListPropertyBookingsForYear retrieves a property's property-scoped
	// bookings of one year, invoice date ascending.
	ListPropertyBookingsForYear(ctx context.Context, userID, propertyID string, year int) ([]domain.Booking, error)

	// ListUnitBookingsForYear retrieves a unit's bookings of one year,
	// invoice date ascending.
	ListUnitBookingsForYear(ctx context.Context, userID, unitID string, year int) ([]domain.Booking, error)
}

// BookingWriter defines write operations for booking data.
type BookingWriter interface {
	// SaveBooking persists a new booking.
	SaveBooking(ctx context.Context, booking domain.Booking) error

	// UpdateBooking updates a draft booking's mutable fields.
	UpdateBooking(ctx context.Context, booking domain.Booking) error

	// UpdateBookingStatus flips a booking's status, guarded by the expected
	// current status so concurrent writers cannot double-transition.
	UpdateBookingStatus(ctx context.Context, bookingID string, from, to domain.BookingStatus, updatedBy string, updatedAt time.Time) error

	// DeleteBooking removes a draft booking.
	DeleteBooking(ctx context.Context, userID, bookingID string) error
}

// BookingDistributionSupport defines the atomic multi-row writes of the
// distribution engine. Each call is one transaction: either all child
// bookings are inserted and the original's status flipped, or nothing is.
type BookingDistributionSupport interface {
	// SaveDistribution inserts the per-unit child bookings and moves the
	// original property booking from draft to distributed. The original's
	// status is re-checked inside the transaction; a concurrent transition
	// surfaces as ErrConflict.
	SaveDistribution(ctx context.Context, original domain.Booking, children []domain.Booking) error

	// SaveReversal inserts the negative mirror bookings and moves the
	// original property booking from distributed to locked.
	SaveReversal(ctx context.Context, original domain.Booking, mirrors []domain.Booking) error
}

// BookingAggregator defines the read-side aggregations feeding reports.
type BookingAggregator interface {
	// SumByAccount returns per-account amount sums for one year, grouped by
	// property or unit scope.
	SumByAccount(ctx context.Context, userID string, year int, groupBy string, groupID string) (map[string]decimal.Decimal, error)

	// SumByUnitGroupedByYear returns, for one unit, per-account sums keyed
	// by year across all years that have bookings.
	SumByUnitGroupedByYear(ctx context.Context, userID, unitID string) (map[int]map[string]decimal.Decimal, error)
}

// BookingRepositoryFacade combines all booking-related repository interfaces.
type BookingRepositoryFacade interface {
	BookingReader
	BookingWriter
	BookingDistributionSupport
	BookingAggregator
}
