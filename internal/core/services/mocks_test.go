package services_test

import (
	"context"
	"time"

	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock BookingRepository ---

type MockBookingRepository struct {
	mock.Mock
}

var _ portsrepo.BookingRepositoryFacade = (*MockBookingRepository)(nil)

func (m *MockBookingRepository) FindBookingForUser(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBookingsByUser(ctx context.Context, userID string, filter portsrepo.BookingFilter, limit int, nextToken *string) ([]domain.Booking, *string, error) {
	args := m.Called(ctx, userID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.Booking), returnedToken, args.Error(2)
}

func (m *MockBookingRepository) FindBySourceProperty(ctx context.Context, userID, sourceBookingID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, sourceBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListPropertyBookingsForYear(ctx context.Context, userID, propertyID string, year int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, propertyID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListUnitBookingsForYear(ctx context.Context, userID, unitID string, year int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, unitID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SaveBooking(ctx context.Context, booking domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateBooking(ctx context.Context, booking domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateBookingStatus(ctx context.Context, bookingID string, from, to domain.BookingStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, bookingID, from, to, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockBookingRepository) DeleteBooking(ctx context.Context, userID, bookingID string) error {
	args := m.Called(ctx, userID, bookingID)
	return args.Error(0)
}

func (m *MockBookingRepository) SaveDistribution(ctx context.Context, original domain.Booking, children []domain.Booking) error {
	args := m.Called(ctx, original, children)
	return args.Error(0)
}

func (m *MockBookingRepository) SaveReversal(ctx context.Context, original domain.Booking, mirrors []domain.Booking) error {
	args := m.Called(ctx, original, mirrors)
	return args.Error(0)
}

func (m *MockBookingRepository) SumByAccount(ctx context.Context, userID string, year int, groupBy string, groupID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID, year, groupBy, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockBookingRepository) SumByUnitGroupedByYear(ctx context.Context, userID, unitID string) (map[int]map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]map[string]decimal.Decimal), args.Error(1)
}

// --- Mock DistributionKeyRepository ---

type MockKeyRepository struct {
	mock.Mock
}

var _ portsrepo.DistributionKeyRepositoryFacade = (*MockKeyRepository)(nil)

func (m *MockKeyRepository) FindKeyForUser(ctx context.Context, userID, keyID string) (*domain.DistributionKey, error) {
	args := m.Called(ctx, userID, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionKey), args.Error(1)
}

func (m *MockKeyRepository) ListKeysByProperty(ctx context.Context, userID, propertyID string) ([]domain.DistributionKey, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionKey), args.Error(1)
}

func (m *MockKeyRepository) SaveKey(ctx context.Context, key domain.DistributionKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKeyRepository) DeleteKey(ctx context.Context, userID, keyID string) error {
	args := m.Called(ctx, userID, keyID)
	return args.Error(0)
}

func (m *MockKeyRepository) FindValidForKey(ctx context.Context, keyID string, from, to time.Time) ([]domain.DistributionKeyUnit, error) {
	args := m.Called(ctx, keyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionKeyUnit), args.Error(1)
}

func (m *MockKeyRepository) ListEntriesByKey(ctx context.Context, keyID string) ([]domain.DistributionKeyUnit, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionKeyUnit), args.Error(1)
}

func (m *MockKeyRepository) SaveEntry(ctx context.Context, entry domain.DistributionKeyUnit) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock PropertyRepository ---

type MockPropertyRepository struct {
	mock.Mock
}

var _ portsrepo.PropertyRepositoryFacade = (*MockPropertyRepository)(nil)

func (m *MockPropertyRepository) FindPropertyForUser(ctx context.Context, userID, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListPropertiesByUser(ctx context.Context, userID string) ([]domain.Property, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindUnitForUser(ctx context.Context, userID, unitID string) (*domain.Unit, error) {
	args := m.Called(ctx, userID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockPropertyRepository) ListUnitsByProperty(ctx context.Context, userID, propertyID string) ([]domain.Unit, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}

func (m *MockPropertyRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DisableAccount(ctx context.Context, number string, userID string, now time.Time) error {
	args := m.Called(ctx, number, userID, now)
	return args.Error(0)
}
