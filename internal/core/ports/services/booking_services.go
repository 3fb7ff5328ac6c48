package services

import (
	"context"

	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/dto"
)

// BookingReaderSvc defines read operations for bookings.
type BookingReaderSvc interface {
	// GetBooking retrieves one booking scoped to its owner.
	GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)

	// ListBookings retrieves a filtered, token-paginated booking list.
	ListBookings(ctx context.Context, userID string, params dto.ListBookingsParams) (*dto.ListBookingsResponse, error)
}

// BookingWriterSvc defines write operations for bookings. Only drafts are
// mutable.
type BookingWriterSvc interface {
	// CreateBooking validates and persists a new draft booking.
	CreateBooking(ctx context.Context, req dto.CreateBookingRequest, userID string) (*domain.Booking, error)

	// UpdateBooking updates a draft booking.
	UpdateBooking(ctx context.Context, bookingID string, req dto.UpdateBookingRequest, userID string) (*domain.Booking, error)

	// DeleteBooking removes a draft booking.
	DeleteBooking(ctx context.Context, userID, bookingID string) error

	// LockBooking finalizes a draft unit booking (draft -> locked).
	LockBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
}

// BookingSvcFacade combines all booking-related service interfaces.
type BookingSvcFacade interface {
	BookingReaderSvc
	BookingWriterSvc
}
