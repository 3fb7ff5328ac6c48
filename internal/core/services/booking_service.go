package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/Rello/domus-sub002/internal/platform/cache"
	"github.com/google/uuid"
)

// bookingService implements draft booking CRUD and the draft -> locked
// transition for unit bookings. Distribution transitions live in the
// distribution service.
type bookingService struct {
	BaseService
	bookingRepo  portsrepo.BookingRepositoryFacade
	keyRepo      portsrepo.DistributionKeyRepositoryFacade
	propertyRepo portsrepo.PropertyRepositoryFacade
	registry     portssvc.AccountRegistrySvc
	reportCache  *cache.ReportCache
}

var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

// NewBookingService creates a new booking service.
func NewBookingService(
	bookingRepo portsrepo.BookingRepositoryFacade,
	keyRepo portsrepo.DistributionKeyRepositoryFacade,
	propertyRepo portsrepo.PropertyRepositoryFacade,
	registry portssvc.AccountRegistrySvc,
	reportCache *cache.ReportCache,
) portssvc.BookingSvcFacade {
	return &bookingService{
		bookingRepo:  bookingRepo,
		keyRepo:      keyRepo,
		propertyRepo: propertyRepo,
		registry:     registry,
		reportCache:  reportCache,
	}
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	return s.bookingRepo.FindBookingForUser(ctx, userID, bookingID)
}

func (s *bookingService) ListBookings(ctx context.Context, userID string, params dto.ListBookingsParams) (*dto.ListBookingsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filter := portsrepo.BookingFilter{
		Year:       params.Year,
		PropertyID: params.PropertyID,
		UnitID:     params.UnitID,
	}
	bookings, nextToken, err := s.bookingRepo.ListBookingsByUser(ctx, userID, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListBookingsResponse{
		Bookings:  dto.ToBookingResponses(bookings),
		NextToken: nextToken,
	}, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, req dto.CreateBookingRequest, userID string) (*domain.Booking, error) {
	logger := s.GetLogger(ctx)

	if req.PropertyID == nil && req.UnitID == nil {
		return nil, fmt.Errorf("%w: booking requires a property or a unit", apperrors.ErrValidation)
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: booking amount must not be zero", apperrors.ErrValidation)
	}

	if err := s.registry.AssertValid(ctx, req.AccountNumber); err != nil {
		return nil, err
	}
	if err := s.registry.AssertActive(ctx, req.AccountNumber); err != nil {
		return nil, err
	}

	if err := s.validateScope(ctx, userID, req.PropertyID, req.UnitID, req.DistributionKeyID); err != nil {
		return nil, err
	}

	periodFrom, periodTo, err := resolvePeriod(req.Date, req.PeriodFrom, req.PeriodTo)
	if err != nil {
		return nil, err
	}

	deliveryDate := req.Date
	if req.DeliveryDate != nil {
		deliveryDate = *req.DeliveryDate
	}

	now := time.Now()
	booking := domain.Booking{
		BookingID:         uuid.NewString(),
		UserID:            userID,
		AccountNumber:     req.AccountNumber,
		Date:              req.Date,
		DeliveryDate:      deliveryDate,
		Description:       req.Description,
		Amount:            req.Amount,
		Year:              req.Date.Year(),
		PropertyID:        req.PropertyID,
		UnitID:            req.UnitID,
		DistributionKeyID: req.DistributionKeyID,
		Status:            domain.BookingDraft,
		PeriodFrom:        periodFrom,
		PeriodTo:          periodTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.bookingRepo.SaveBooking(ctx, booking); err != nil {
		s.LogError(ctx, err, "Failed to save booking")
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	if err := s.reportCache.Bump(ctx); err != nil {
		logger.Warn("Failed to invalidate report cache", slog.String("error", err.Error()))
	}

	logger.Info("Booking created", slog.String("booking_id", booking.BookingID))
	return &booking, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req dto.UpdateBookingRequest, userID string) (*domain.Booking, error) {
	logger := s.GetLogger(ctx)

	booking, err := s.bookingRepo.FindBookingForUser(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingDraft {
		return nil, fmt.Errorf("%w: booking %s is %s and no longer editable",
			apperrors.ErrConflict, bookingID, booking.Status)
	}

	if req.AccountNumber != nil {
		if err := s.registry.AssertValid(ctx, *req.AccountNumber); err != nil {
			return nil, err
		}
		if err := s.registry.AssertActive(ctx, *req.AccountNumber); err != nil {
			return nil, err
		}
		booking.AccountNumber = *req.AccountNumber
	}
	if req.Date != nil {
		booking.Date = *req.Date
		booking.Year = req.Date.Year()
	}
	if req.DeliveryDate != nil {
		booking.DeliveryDate = *req.DeliveryDate
	}
	if req.Description != nil {
		booking.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.IsZero() {
			return nil, fmt.Errorf("%w: booking amount must not be zero", apperrors.ErrValidation)
		}
		booking.Amount = *req.Amount
	}
	if req.DistributionKeyID != nil {
		if err := s.validateScope(ctx, userID, booking.PropertyID, booking.UnitID, req.DistributionKeyID); err != nil {
			return nil, err
		}
		booking.DistributionKeyID = req.DistributionKeyID
	}
	if req.PeriodFrom != nil {
		booking.PeriodFrom = *req.PeriodFrom
	}
	if req.PeriodTo != nil {
		booking.PeriodTo = *req.PeriodTo
	}
	if booking.PeriodFrom.After(booking.PeriodTo) {
		return nil, fmt.Errorf("%w: period start is after period end", apperrors.ErrValidation)
	}

	booking.LastUpdatedAt = time.Now()
	booking.LastUpdatedBy = userID

	if err := s.bookingRepo.UpdateBooking(ctx, *booking); err != nil {
		s.LogError(ctx, err, "Failed to update booking", slog.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	if err := s.reportCache.Bump(ctx); err != nil {
		logger.Warn("Failed to invalidate report cache", slog.String("error", err.Error()))
	}

	logger.Info("Booking updated", slog.String("booking_id", bookingID))
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, userID, bookingID string) error {
	booking, err := s.bookingRepo.FindBookingForUser(ctx, userID, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != domain.BookingDraft {
		return fmt.Errorf("%w: booking %s is %s, only drafts can be deleted",
			apperrors.ErrConflict, bookingID, booking.Status)
	}

	if err := s.bookingRepo.DeleteBooking(ctx, userID, bookingID); err != nil {
		s.LogError(ctx, err, "Failed to delete booking", slog.String("booking_id", bookingID))
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if err := s.reportCache.Bump(ctx); err != nil {
		s.GetLogger(ctx).Warn("Failed to invalidate report cache", slog.String("error", err.Error()))
	}

	s.LogInfo(ctx, "Booking deleted", slog.String("booking_id", bookingID))
	return nil
}

func (s *bookingService) LockBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindBookingForUser(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingDraft {
		return nil, fmt.Errorf("%w: booking %s is %s, only drafts can be locked",
			apperrors.ErrConflict, bookingID, booking.Status)
	}
	if booking.UnitID == nil {
		// property bookings lock through distribute/reverse
		return nil, fmt.Errorf("%w: property bookings are locked by distributing them", apperrors.ErrConflict)
	}

	now := time.Now()
	if err := s.bookingRepo.UpdateBookingStatus(ctx, bookingID, domain.BookingDraft, domain.BookingLocked, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to lock booking", slog.String("booking_id", bookingID))
		return nil, err
	}

	booking.Status = domain.BookingLocked
	booking.LastUpdatedAt = now
	booking.LastUpdatedBy = userID

	s.LogInfo(ctx, "Booking locked", slog.String("booking_id", bookingID))
	return booking, nil
}

// validateScope checks property and unit ownership, their relationship, and
// the distribution key placement rules.
func (s *bookingService) validateScope(ctx context.Context, userID string, propertyID, unitID, keyID *string) error {
	var property *domain.Property
	if propertyID != nil {
		var err error
		property, err = s.propertyRepo.FindPropertyForUser(ctx, userID, *propertyID)
		if err != nil {
			return err
		}
	}
	if unitID != nil {
		unit, err := s.propertyRepo.FindUnitForUser(ctx, userID, *unitID)
		if err != nil {
			return err
		}
		if property != nil && unit.PropertyID != property.PropertyID {
			return fmt.Errorf("%w: unit does not belong to the given property", apperrors.ErrValidation)
		}
	}
	if keyID != nil {
		if propertyID == nil || unitID != nil {
			return fmt.Errorf("%w: a distribution key is only allowed on property-scoped bookings", apperrors.ErrValidation)
		}
		key, err := s.keyRepo.FindKeyForUser(ctx, userID, *keyID)
		if err != nil {
			return err
		}
		if key.PropertyID != *propertyID {
			return fmt.Errorf("%w: key %q belongs to another property", apperrors.ErrValidation, key.Name)
		}
	}
	return nil
}

// resolvePeriod defaults a missing period to the invoice date and rejects
// inverted ranges.
func resolvePeriod(date time.Time, from, to *time.Time) (time.Time, time.Time, error) {
	periodFrom := date
	periodTo := date
	if from != nil {
		periodFrom = *from
	}
	if to != nil {
		periodTo = *to
	}
	if periodFrom.After(periodTo) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period start is after period end", apperrors.ErrValidation)
	}
	return periodFrom, periodTo, nil
}
