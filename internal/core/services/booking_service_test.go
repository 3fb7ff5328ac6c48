package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/core/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BookingServiceTestSuite struct {
	suite.Suite
	mockBookingRepo  *MockBookingRepository
	mockKeyRepo      *MockKeyRepository
	mockPropertyRepo *MockPropertyRepository
	mockRegistry     *MockAccountRegistry
	service          portssvc.BookingSvcFacade

	userID     string
	propertyID string
	unitID     string
}

func (s *BookingServiceTestSuite) SetupTest() {
	s.mockBookingRepo = new(MockBookingRepository)
	s.mockKeyRepo = new(MockKeyRepository)
	s.mockPropertyRepo = new(MockPropertyRepository)
	s.mockRegistry = new(MockAccountRegistry)
	s.service = services.NewBookingService(
		s.mockBookingRepo, s.mockKeyRepo, s.mockPropertyRepo, s.mockRegistry, nil,
	)

	s.userID = uuid.NewString()
	s.propertyID = uuid.NewString()
	s.unitID = uuid.NewString()
}

func (s *BookingServiceTestSuite) validRequest() dto.CreateBookingRequest {
	propertyID := s.propertyID
	return dto.CreateBookingRequest{
		AccountNumber: "2001",
		Date:          time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		Description:   "maintenance",
		Amount:        decimal.RequireFromString("120.00"),
		PropertyID:    &propertyID,
	}
}

func (s *BookingServiceTestSuite) TestCreateBookingDefaultsPeriodAndYear() {
	ctx := context.Background()
	req := s.validRequest()

	s.mockRegistry.On("AssertValid", ctx, "2001").Return(nil).Once()
	s.mockRegistry.On("AssertActive", ctx, "2001").Return(nil).Once()
	s.mockPropertyRepo.On("FindPropertyForUser", ctx, s.userID, s.propertyID).
		Return(&domain.Property{PropertyID: s.propertyID, UserID: s.userID}, nil).Once()

	var saved domain.Booking
	s.mockBookingRepo.On("SaveBooking", ctx, mock.AnythingOfType("domain.Booking")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Booking) }).
		Return(nil).Once()

	booking, err := s.service.CreateBooking(ctx, req, s.userID)
	s.Require().NoError(err)

	s.Equal(domain.BookingDraft, booking.Status)
	s.Equal(2024, booking.Year)
	s.Equal(req.Date, saved.PeriodFrom)
	s.Equal(req.Date, saved.PeriodTo)
	s.Equal(req.Date, saved.DeliveryDate)
}

func (s *BookingServiceTestSuite) TestCreateBookingRequiresScope() {
	req := s.validRequest()
	req.PropertyID = nil

	_, err := s.service.CreateBooking(context.Background(), req, s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BookingServiceTestSuite) TestCreateBookingRejectsKeyOnUnitBooking() {
	ctx := context.Background()
	req := s.validRequest()
	unitID := s.unitID
	keyID := uuid.NewString()
	req.UnitID = &unitID
	req.DistributionKeyID = &keyID

	s.mockRegistry.On("AssertValid", ctx, "2001").Return(nil).Once()
	s.mockRegistry.On("AssertActive", ctx, "2001").Return(nil).Once()
	s.mockPropertyRepo.On("FindPropertyForUser", ctx, s.userID, s.propertyID).
		Return(&domain.Property{PropertyID: s.propertyID, UserID: s.userID}, nil).Once()
	s.mockPropertyRepo.On("FindUnitForUser", ctx, s.userID, s.unitID).
		Return(&domain.Unit{UnitID: s.unitID, PropertyID: s.propertyID}, nil).Once()

	_, err := s.service.CreateBooking(ctx, req, s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BookingServiceTestSuite) TestCreateBookingRejectsInvertedPeriod() {
	ctx := context.Background()
	req := s.validRequest()
	from := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	req.PeriodFrom = &from
	req.PeriodTo = &to

	s.mockRegistry.On("AssertValid", ctx, "2001").Return(nil).Once()
	s.mockRegistry.On("AssertActive", ctx, "2001").Return(nil).Once()
	s.mockPropertyRepo.On("FindPropertyForUser", ctx, s.userID, s.propertyID).
		Return(&domain.Property{PropertyID: s.propertyID, UserID: s.userID}, nil).Once()

	_, err := s.service.CreateBooking(ctx, req, s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BookingServiceTestSuite) TestUpdateNonDraftFails() {
	ctx := context.Background()
	bookingID := uuid.NewString()
	booking := domain.Booking{BookingID: bookingID, UserID: s.userID, Status: domain.BookingDistributed}

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, bookingID).Return(&booking, nil).Once()

	desc := "changed"
	_, err := s.service.UpdateBooking(ctx, bookingID, dto.UpdateBookingRequest{Description: &desc}, s.userID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *BookingServiceTestSuite) TestDeleteNonDraftFails() {
	ctx := context.Background()
	bookingID := uuid.NewString()
	booking := domain.Booking{BookingID: bookingID, UserID: s.userID, Status: domain.BookingLocked}

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, bookingID).Return(&booking, nil).Once()

	err := s.service.DeleteBooking(ctx, s.userID, bookingID)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockBookingRepo.AssertNotCalled(s.T(), "DeleteBooking")
}

func (s *BookingServiceTestSuite) TestLockBookingRequiresUnitScope() {
	ctx := context.Background()
	bookingID := uuid.NewString()
	propertyID := s.propertyID
	booking := domain.Booking{
		BookingID:  bookingID,
		UserID:     s.userID,
		Status:     domain.BookingDraft,
		PropertyID: &propertyID,
	}

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, bookingID).Return(&booking, nil).Once()

	_, err := s.service.LockBooking(ctx, s.userID, bookingID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *BookingServiceTestSuite) TestLockBookingTransitionsDraftToLocked() {
	ctx := context.Background()
	bookingID := uuid.NewString()
	unitID := s.unitID
	booking := domain.Booking{
		BookingID: bookingID,
		UserID:    s.userID,
		Status:    domain.BookingDraft,
		UnitID:    &unitID,
	}

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, bookingID).Return(&booking, nil).Once()
	s.mockBookingRepo.On("UpdateBookingStatus", ctx, bookingID, domain.BookingDraft, domain.BookingLocked, s.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	locked, err := s.service.LockBooking(ctx, s.userID, bookingID)
	s.Require().NoError(err)
	s.Equal(domain.BookingLocked, locked.Status)
}

func TestBookingService(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}
