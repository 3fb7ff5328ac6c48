package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/Rello/domus-sub002/internal/platform/cache"
	"github.com/shopspring/decimal"
)

// Built-in statistics rule sets.
const (
	StatisticsSetRevenue = "revenue"
	StatisticsSetCost    = "cost"
)

// statisticsService evaluates the built-in rule sets over a unit's yearly
// account sums. Computed tables are cached until a booking write bumps the
// report cache version.
type statisticsService struct {
	BaseService
	bookingRepo  portsrepo.BookingAggregator
	propertyRepo portsrepo.PropertyRepositoryFacade
	evaluator    *RuleEvaluator
	reportCache  *cache.ReportCache
	lang         string
}

var _ portssvc.StatisticsSvcFacade = (*statisticsService)(nil)

// NewStatisticsService creates a new statistics service.
func NewStatisticsService(
	bookingRepo portsrepo.BookingAggregator,
	propertyRepo portsrepo.PropertyRepositoryFacade,
	evaluator *RuleEvaluator,
	reportCache *cache.ReportCache,
	lang string,
) portssvc.StatisticsSvcFacade {
	if lang == "" {
		lang = "de"
	}
	return &statisticsService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		evaluator:    evaluator,
		reportCache:  reportCache,
		lang:         lang,
	}
}

func (s *statisticsService) BuildAllYears(ctx context.Context, userID, unitID, set string) (*dto.StatisticsResponse, error) {
	defs, err := columnsForSet(set)
	if err != nil {
		return nil, err
	}

	// unit must exist and belong to the caller
	if _, err := s.propertyRepo.FindUnitForUser(ctx, userID, unitID); err != nil {
		return nil, err
	}

	cacheKey, err := s.reportCache.BuildKey(ctx, "stats", userID, unitID, set)
	if err != nil {
		s.LogError(ctx, err, "Failed to build statistics cache key")
		cacheKey = fmt.Sprintf("stats:%s:%s:%s", userID, unitID, set)
	}

	var response dto.StatisticsResponse
	err = s.reportCache.FetchJSON(ctx, cacheKey, &response, func(ctx context.Context) (interface{}, error) {
		return s.buildAllYears(ctx, userID, unitID, set, defs)
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *statisticsService) buildAllYears(ctx context.Context, userID, unitID, set string, defs []domain.ColumnDef) (*dto.StatisticsResponse, error) {
	sumsByYear, err := s.bookingRepo.SumByUnitGroupedByYear(ctx, userID, unitID)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(sumsByYear))
	for year := range sumsByYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	rows := make([]map[string]any, 0, len(years))
	for _, year := range years {
		row, err := s.buildRow(year, defs, sumsByYear[year])
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", year, err)
		}
		rows = append(rows, row)
	}

	return &dto.StatisticsResponse{
		UnitID:  unitID,
		Set:     set,
		Columns: dto.ToStatisticsColumnMeta(defs, s.lang),
		Rows:    rows,
	}, nil
}

// buildRow converts one year's decimal sums to floats and delegates to the
// rule evaluator. Each year evaluates independently.
func (s *statisticsService) buildRow(year int, defs []domain.ColumnDef, sums map[string]decimal.Decimal) (map[string]any, error) {
	floatSums := make(map[string]float64, len(sums))
	for account, sum := range sums {
		floatSums[account] = sum.InexactFloat64()
	}
	return s.evaluator.EvaluateRow(year, defs, floatSums)
}

func columnsForSet(set string) ([]domain.ColumnDef, error) {
	switch set {
	case StatisticsSetRevenue:
		return domain.UnitRevenueColumns(), nil
	case StatisticsSetCost:
		return domain.UnitCostColumns(), nil
	default:
		return nil, fmt.Errorf("%w: unknown statistics set %s", apperrors.ErrValidation, strconv.Quote(set))
	}
}
