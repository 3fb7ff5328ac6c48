package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/core/services"
	"github.com/Rello/domus-sub002/internal/platform/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildAllYears_RowsNewestFirst(t *testing.T) {
	mockBookingRepo := new(MockBookingRepository)
	mockPropertyRepo := new(MockPropertyRepository)
	svc := services.NewStatisticsService(mockBookingRepo, mockPropertyRepo, services.NewRuleEvaluator(), nil, "de")

	userID := uuid.NewString()
	unitID := uuid.NewString()

	mockPropertyRepo.On("FindUnitForUser", mock.Anything, userID, unitID).
		Return(&domain.Unit{UnitID: unitID, UserID: userID}, nil).Once()
	mockBookingRepo.On("SumByUnitGroupedByYear", mock.Anything, userID, unitID).
		Return(map[int]map[string]decimal.Decimal{
			2022: {"1000": decimal.NewFromInt(900)},
			2024: {"1000": decimal.NewFromInt(1100)},
			2023: {"1000": decimal.NewFromInt(1000)},
		}, nil).Once()

	resp, err := svc.BuildAllYears(context.Background(), userID, unitID, services.StatisticsSetRevenue)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 3)
	years := make([]int, len(resp.Rows))
	for i, row := range resp.Rows {
		// rows round-trip through JSON in the cache layer, so numbers
		// arrive as float64
		years[i] = int(row["year"].(float64))
	}
	assert.Equal(t, []int{2024, 2023, 2022}, years)
	assert.Equal(t, 1100.0, resp.Rows[0]["rent"])
}

func TestBuildAllYears_UnknownSetFails(t *testing.T) {
	svc := services.NewStatisticsService(new(MockBookingRepository), new(MockPropertyRepository), services.NewRuleEvaluator(), nil, "de")

	_, err := svc.BuildAllYears(context.Background(), uuid.NewString(), uuid.NewString(), "profit")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBuildAllYears_CachesUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	reportCache := cache.NewReportCache(client, time.Minute)

	mockBookingRepo := new(MockBookingRepository)
	mockPropertyRepo := new(MockPropertyRepository)
	svc := services.NewStatisticsService(mockBookingRepo, mockPropertyRepo, services.NewRuleEvaluator(), reportCache, "de")

	userID := uuid.NewString()
	unitID := uuid.NewString()

	mockPropertyRepo.On("FindUnitForUser", mock.Anything, userID, unitID).
		Return(&domain.Unit{UnitID: unitID, UserID: userID}, nil)
	// the aggregation must run exactly twice: initial load and post-bump
	mockBookingRepo.On("SumByUnitGroupedByYear", mock.Anything, userID, unitID).
		Return(map[int]map[string]decimal.Decimal{
			2024: {"1001": decimal.NewFromInt(5000)},
		}, nil).Twice()

	ctx := context.Background()
	_, err := svc.BuildAllYears(ctx, userID, unitID, services.StatisticsSetCost)
	require.NoError(t, err)

	// second call is served from the cache
	_, err = svc.BuildAllYears(ctx, userID, unitID, services.StatisticsSetCost)
	require.NoError(t, err)

	require.NoError(t, reportCache.Bump(ctx))

	_, err = svc.BuildAllYears(ctx, userID, unitID, services.StatisticsSetCost)
	require.NoError(t, err)

	mockBookingRepo.AssertExpectations(t)
}
