package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRegistry ---

type MockAccountRegistry struct {
	mock.Mock
}

var _ portssvc.AccountRegistrySvc = (*MockAccountRegistry)(nil)

func (m *MockAccountRegistry) Label(ctx context.Context, number string) string {
	args := m.Called(ctx, number)
	return args.String(0)
}

func (m *MockAccountRegistry) Exists(ctx context.Context, number string) bool {
	args := m.Called(ctx, number)
	return args.Bool(0)
}

func (m *MockAccountRegistry) IsActive(ctx context.Context, number string) bool {
	args := m.Called(ctx, number)
	return args.Bool(0)
}

func (m *MockAccountRegistry) TopAccountNumber(ctx context.Context, number string) string {
	args := m.Called(ctx, number)
	return args.String(0)
}

func (m *MockAccountRegistry) AssertValid(ctx context.Context, number string) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

func (m *MockAccountRegistry) AssertActive(ctx context.Context, number string) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

type DistributionServiceTestSuite struct {
	suite.Suite
	mockBookingRepo  *MockBookingRepository
	mockKeyRepo      *MockKeyRepository
	mockPropertyRepo *MockPropertyRepository
	mockRegistry     *MockAccountRegistry
	service          portssvc.DistributionSvcFacade

	userID     string
	propertyID string
	units      []domain.Unit
	key        domain.DistributionKey
	booking    domain.Booking
}

func (s *DistributionServiceTestSuite) SetupTest() {
	s.mockBookingRepo = new(MockBookingRepository)
	s.mockKeyRepo = new(MockKeyRepository)
	s.mockPropertyRepo = new(MockPropertyRepository)
	s.mockRegistry = new(MockAccountRegistry)

	resolver := services.NewDistributionKeyResolver(s.mockKeyRepo)
	engine := services.NewAllocationEngine(resolver)
	s.service = services.NewDistributionService(
		s.mockBookingRepo, s.mockKeyRepo, s.mockPropertyRepo,
		s.mockRegistry, engine, nil, nil,
	)

	s.userID = uuid.NewString()
	s.propertyID = uuid.NewString()
	s.units = []domain.Unit{
		{UnitID: "unit-a", PropertyID: s.propertyID, Name: "Apartment A", LivingArea: 50},
		{UnitID: "unit-b", PropertyID: s.propertyID, Name: "Apartment B", LivingArea: 30},
		{UnitID: "unit-c", PropertyID: s.propertyID, Name: "Apartment C", LivingArea: 20},
	}
	s.key = domain.DistributionKey{
		KeyID:      uuid.NewString(),
		UserID:     s.userID,
		PropertyID: s.propertyID,
		Type:       domain.KeyArea,
		Name:       "by area",
		Config:     domain.KeyConfig{Base: 100},
	}

	date := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	propertyID := s.propertyID
	keyID := s.key.KeyID
	s.booking = domain.Booking{
		BookingID:         uuid.NewString(),
		UserID:            s.userID,
		AccountNumber:     "2001",
		Date:              date,
		DeliveryDate:      date,
		Description:       "maintenance invoice",
		Amount:            decimal.RequireFromString("100.00"),
		Year:              2024,
		PropertyID:        &propertyID,
		DistributionKeyID: &keyID,
		Status:            domain.BookingDraft,
		PeriodFrom:        time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:          time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (s *DistributionServiceTestSuite) TestDistributeHappyPath() {
	ctx := context.Background()
	booking := s.booking

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, booking.BookingID).Return(&booking, nil).Once()
	s.mockRegistry.On("AssertValid", ctx, "2001").Return(nil).Once()
	s.mockRegistry.On("AssertActive", ctx, "2001").Return(nil).Once()
	s.mockKeyRepo.On("FindKeyForUser", ctx, s.userID, s.key.KeyID).Return(&s.key, nil).Once()
	s.mockPropertyRepo.On("ListUnitsByProperty", ctx, s.userID, s.propertyID).Return(s.units, nil).Once()
	s.mockKeyRepo.On("FindValidForKey", ctx, s.key.KeyID, booking.PeriodFrom, booking.PeriodTo).
		Return([]domain.DistributionKeyUnit{}, nil).Once()

	var savedChildren []domain.Booking
	s.mockBookingRepo.On("SaveDistribution", ctx, booking, mock.AnythingOfType("[]domain.Booking")).
		Run(func(args mock.Arguments) {
			savedChildren = args.Get(2).([]domain.Booking)
		}).Return(nil).Once()

	preview, err := s.service.Distribute(ctx, s.userID, booking.BookingID)
	s.Require().NoError(err)

	s.Equal(booking.BookingID, preview.BookingID)
	s.Equal("area", preview.KeyType)
	s.Require().Len(preview.Shares, 3)
	s.Require().Len(savedChildren, 3)

	sum := decimal.Zero
	for _, child := range savedChildren {
		s.Equal(domain.BookingLocked, child.Status)
		s.Require().NotNil(child.UnitID)
		s.Require().NotNil(child.SourcePropertyBookingID)
		s.Equal(booking.BookingID, *child.SourcePropertyBookingID)
		s.Equal(booking.AccountNumber, child.AccountNumber)
		sum = sum.Add(child.Amount)
	}
	s.True(sum.Equal(booking.Amount), "children must sum exactly to the total")

	s.mockBookingRepo.AssertExpectations(s.T())
}

func (s *DistributionServiceTestSuite) TestDistributeNonDraftFails() {
	ctx := context.Background()
	booking := s.booking
	booking.Status = domain.BookingDistributed

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, booking.BookingID).Return(&booking, nil).Once()

	_, err := s.service.Distribute(ctx, s.userID, booking.BookingID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *DistributionServiceTestSuite) TestDistributeWithoutKeyFails() {
	ctx := context.Background()
	booking := s.booking
	booking.DistributionKeyID = nil

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, booking.BookingID).Return(&booking, nil).Once()

	_, err := s.service.Distribute(ctx, s.userID, booking.BookingID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DistributionServiceTestSuite) TestReverseWritesNegatedMirrors() {
	ctx := context.Background()
	booking := s.booking
	booking.Status = domain.BookingDistributed

	sourceID := booking.BookingID
	children := []domain.Booking{
		{BookingID: uuid.NewString(), Amount: decimal.RequireFromString("50.00"), SourcePropertyBookingID: &sourceID},
		{BookingID: uuid.NewString(), Amount: decimal.RequireFromString("30.00"), SourcePropertyBookingID: &sourceID},
		{BookingID: uuid.NewString(), Amount: decimal.RequireFromString("20.00"), SourcePropertyBookingID: &sourceID},
	}

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, booking.BookingID).Return(&booking, nil).Once()
	s.mockBookingRepo.On("FindBySourceProperty", ctx, s.userID, booking.BookingID).Return(children, nil).Once()

	var savedMirrors []domain.Booking
	s.mockBookingRepo.On("SaveReversal", ctx, booking, mock.AnythingOfType("[]domain.Booking")).
		Run(func(args mock.Arguments) {
			savedMirrors = args.Get(2).([]domain.Booking)
		}).Return(nil).Once()

	result, err := s.service.Reverse(ctx, s.userID, booking.BookingID)
	s.Require().NoError(err)
	s.Equal(string(domain.BookingLocked), result.Status)
	s.Require().Len(savedMirrors, 3)

	// shares plus mirrors must net to zero; the original amount is untouched
	sum := decimal.Zero
	for _, child := range children {
		sum = sum.Add(child.Amount)
	}
	for _, mirror := range savedMirrors {
		sum = sum.Add(mirror.Amount)
	}
	s.True(sum.IsZero())
	s.True(booking.Amount.Equal(decimal.RequireFromString("100.00")))
}

func (s *DistributionServiceTestSuite) TestReverseDraftFails() {
	ctx := context.Background()
	booking := s.booking

	s.mockBookingRepo.On("FindBookingForUser", ctx, s.userID, booking.BookingID).Return(&booking, nil).Once()

	_, err := s.service.Reverse(ctx, s.userID, booking.BookingID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *DistributionServiceTestSuite) TestUnitReportGroupsByTopAccount() {
	ctx := context.Background()
	unit := s.units[0]

	// two direct unit bookings whose accounts share the top account 2000
	unitBookings := []domain.Booking{
		{BookingID: uuid.NewString(), AccountNumber: "2001", Amount: decimal.RequireFromString("40.00"),
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{BookingID: uuid.NewString(), AccountNumber: "2004", Amount: decimal.RequireFromString("60.00"),
			Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	s.mockPropertyRepo.On("FindUnitForUser", ctx, s.userID, unit.UnitID).Return(&unit, nil).Once()
	s.mockPropertyRepo.On("ListUnitsByProperty", ctx, s.userID, s.propertyID).Return(s.units, nil).Once()
	s.mockBookingRepo.On("ListPropertyBookingsForYear", ctx, s.userID, s.propertyID, 2024).
		Return([]domain.Booking{}, nil).Once()
	s.mockBookingRepo.On("ListUnitBookingsForYear", ctx, s.userID, unit.UnitID, 2024).
		Return(unitBookings, nil).Once()
	s.mockRegistry.On("TopAccountNumber", ctx, "2001").Return("2000").Once()
	s.mockRegistry.On("TopAccountNumber", ctx, "2004").Return("2000").Once()
	s.mockRegistry.On("Label", ctx, "2000").Return("Hausgeld").Once()

	report, err := s.service.BuildUnitReport(ctx, s.userID, s.propertyID, unit.UnitID, 2024)
	s.Require().NoError(err)

	s.Require().Len(report.Groups, 1, "accounts under the same top account share one group")
	group := report.Groups[0]
	s.Equal("2000", group.TopAccount)
	s.Equal("Hausgeld", group.Label)
	s.Len(group.Rows, 2)
	s.True(group.Sum.Equal(decimal.RequireFromString("100.00")))
}

func (s *DistributionServiceTestSuite) TestUnitReportShareRowUsesValueOverBase() {
	ctx := context.Background()
	unit := s.units[0]
	keyID := s.key.KeyID
	propertyID := s.propertyID

	distributed := domain.Booking{
		BookingID:         uuid.NewString(),
		AccountNumber:     "2001",
		Amount:            decimal.RequireFromString("100.01"),
		Date:              time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		PropertyID:        &propertyID,
		DistributionKeyID: &keyID,
		Status:            domain.BookingDistributed,
		PeriodFrom:        time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:          time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
	}

	s.mockPropertyRepo.On("FindUnitForUser", ctx, s.userID, unit.UnitID).Return(&unit, nil).Once()
	s.mockPropertyRepo.On("ListUnitsByProperty", ctx, s.userID, s.propertyID).Return(s.units, nil).Once()
	s.mockBookingRepo.On("ListPropertyBookingsForYear", ctx, s.userID, s.propertyID, 2024).
		Return([]domain.Booking{distributed}, nil).Once()
	s.mockBookingRepo.On("ListUnitBookingsForYear", ctx, s.userID, unit.UnitID, 2024).
		Return([]domain.Booking{}, nil).Once()
	s.mockKeyRepo.On("FindKeyForUser", ctx, s.userID, keyID).Return(&s.key, nil).Once()
	s.mockKeyRepo.On("FindValidForKey", ctx, keyID, distributed.PeriodFrom, distributed.PeriodTo).
		Return([]domain.DistributionKeyUnit{}, nil).Once()
	s.mockRegistry.On("TopAccountNumber", ctx, "2001").Return("2000").Once()
	s.mockRegistry.On("Label", ctx, "2000").Return("Hausgeld").Once()

	report, err := s.service.BuildUnitReport(ctx, s.userID, s.propertyID, unit.UnitID, 2024)
	s.Require().NoError(err)

	s.Require().Len(report.Groups, 1)
	s.Require().Len(report.Groups[0].Rows, 1)
	row := report.Groups[0].Rows[0]

	// living area 50 over the configured base 100
	s.InDelta(0.5, row.Weight, 1e-9)
	s.True(row.Total.Equal(distributed.Amount))
	s.True(row.ShareAmount.Equal(decimal.RequireFromString("50.01")),
		"share must be total*weight rounded to cents, got %s", row.ShareAmount)
}

func (s *DistributionServiceTestSuite) TestUnitReportKeyWithoutBaseFails() {
	ctx := context.Background()
	unit := s.units[0]
	key := s.key
	key.Config = domain.KeyConfig{}
	keyID := key.KeyID
	propertyID := s.propertyID

	distributed := domain.Booking{
		BookingID:         uuid.NewString(),
		AccountNumber:     "2001",
		Amount:            decimal.RequireFromString("100.00"),
		Date:              time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		PropertyID:        &propertyID,
		DistributionKeyID: &keyID,
		Status:            domain.BookingDistributed,
		PeriodFrom:        time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:          time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
	}

	s.mockPropertyRepo.On("FindUnitForUser", ctx, s.userID, unit.UnitID).Return(&unit, nil).Once()
	s.mockPropertyRepo.On("ListUnitsByProperty", ctx, s.userID, s.propertyID).Return(s.units, nil).Once()
	s.mockBookingRepo.On("ListPropertyBookingsForYear", ctx, s.userID, s.propertyID, 2024).
		Return([]domain.Booking{distributed}, nil).Once()
	s.mockBookingRepo.On("ListUnitBookingsForYear", ctx, s.userID, unit.UnitID, 2024).
		Return([]domain.Booking{}, nil).Once()
	s.mockKeyRepo.On("FindKeyForUser", ctx, s.userID, keyID).Return(&key, nil).Once()
	s.mockKeyRepo.On("FindValidForKey", ctx, keyID, distributed.PeriodFrom, distributed.PeriodTo).
		Return([]domain.DistributionKeyUnit{}, nil).Once()

	_, err := s.service.BuildUnitReport(ctx, s.userID, s.propertyID, unit.UnitID, 2024)
	s.ErrorIs(err, apperrors.ErrConfiguration)
}

func (s *DistributionServiceTestSuite) TestSumByAccountGroupedRejectsUnknownScope() {
	_, err := s.service.SumByAccountGrouped(context.Background(), s.userID, 2024, "tenant", "x")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestDistributionService(t *testing.T) {
	suite.Run(t, new(DistributionServiceTestSuite))
}
