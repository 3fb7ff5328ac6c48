package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/Rello/domus-sub002/internal/platform/cache"
	"github.com/Rello/domus-sub002/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// distributionService orchestrates the booking state machine: distributing
// draft property bookings across units, reversing distributions with mirror
// entries, and assembling per-unit reports.
type distributionService struct {
	BaseService
	bookingRepo  portsrepo.BookingRepositoryFacade
	keyRepo      portsrepo.DistributionKeyRepositoryFacade
	propertyRepo portsrepo.PropertyRepositoryFacade
	registry     portssvc.AccountRegistrySvc
	engine       *AllocationEngine
	reportCache  *cache.ReportCache
	analytics    *utils.PosthogClientWrapper
}

var _ portssvc.DistributionSvcFacade = (*distributionService)(nil)

// NewDistributionService creates a new distribution service.
func NewDistributionService(
	bookingRepo portsrepo.BookingRepositoryFacade,
	keyRepo portsrepo.DistributionKeyRepositoryFacade,
	propertyRepo portsrepo.PropertyRepositoryFacade,
	registry portssvc.AccountRegistrySvc,
	engine *AllocationEngine,
	reportCache *cache.ReportCache,
	analytics *utils.PosthogClientWrapper,
) portssvc.DistributionSvcFacade {
	return &distributionService{
		bookingRepo:  bookingRepo,
		keyRepo:      keyRepo,
		propertyRepo: propertyRepo,
		registry:     registry,
		engine:       engine,
		reportCache:  reportCache,
		analytics:    analytics,
	}
}

func (s *distributionService) Distribute(ctx context.Context, userID, bookingID string) (*dto.DistributionPreview, error) {
	logger := s.GetLogger(ctx)

	booking, err := s.bookingRepo.FindBookingForUser(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingDraft {
		return nil, fmt.Errorf("%w: booking %s is %s, only drafts can be distributed",
			apperrors.ErrConflict, bookingID, booking.Status)
	}
	if !booking.IsPropertyScoped() {
		return nil, fmt.Errorf("%w: only property-scoped bookings can be distributed", apperrors.ErrValidation)
	}
	if booking.DistributionKeyID == nil {
		return nil, fmt.Errorf("%w: booking has no distribution key", apperrors.ErrValidation)
	}

	if err := s.registry.AssertValid(ctx, booking.AccountNumber); err != nil {
		return nil, err
	}
	if err := s.registry.AssertActive(ctx, booking.AccountNumber); err != nil {
		return nil, err
	}

	key, err := s.keyRepo.FindKeyForUser(ctx, userID, *booking.DistributionKeyID)
	if err != nil {
		return nil, err
	}
	if key.PropertyID != *booking.PropertyID {
		return nil, fmt.Errorf("%w: key %q belongs to another property", apperrors.ErrValidation, key.Name)
	}

	units, err := s.propertyRepo.ListUnitsByProperty(ctx, userID, *booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: property has no units to distribute to", apperrors.ErrConfiguration)
	}

	period := booking.Period()
	weights, err := s.engine.ComputeWeights(ctx, *key, period, units)
	if err != nil {
		return nil, err
	}
	shares, err := s.engine.Allocate(units, weights, booking.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	children := make([]domain.Booking, len(shares))
	for i, share := range shares {
		unitID := share.UnitID
		sourceID := booking.BookingID
		children[i] = domain.Booking{
			BookingID:               uuid.NewString(),
			UserID:                  userID,
			AccountNumber:           booking.AccountNumber,
			Date:                    booking.Date,
			DeliveryDate:            booking.DeliveryDate,
			Description:             booking.Description,
			Amount:                  share.Amount,
			Year:                    booking.Year,
			PropertyID:              booking.PropertyID,
			UnitID:                  &unitID,
			Status:                  domain.BookingLocked,
			PeriodFrom:              booking.PeriodFrom,
			PeriodTo:                booking.PeriodTo,
			SourcePropertyBookingID: &sourceID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	if err := s.bookingRepo.SaveDistribution(ctx, *booking, children); err != nil {
		s.LogError(ctx, err, "Failed to save distribution", slog.String("booking_id", bookingID))
		return nil, err
	}

	if err := s.reportCache.Bump(ctx); err != nil {
		logger.Warn("Failed to invalidate report cache", slog.String("error", err.Error()))
	}
	if s.analytics != nil {
		s.analytics.Enqueue(userID, "booking_distributed", map[string]any{
			"booking_id": bookingID,
			"key_type":   string(key.Type),
			"unit_count": len(shares),
		})
	}

	logger.Info("Booking distributed",
		slog.String("booking_id", bookingID),
		slog.String("key_id", key.KeyID),
		slog.Int("unit_count", len(shares)))

	return &dto.DistributionPreview{
		BookingID:  booking.BookingID,
		KeyID:      key.KeyID,
		KeyType:    string(key.Type),
		KeyName:    key.Name,
		PeriodFrom: booking.PeriodFrom,
		PeriodTo:   booking.PeriodTo,
		Total:      booking.Amount,
		Shares:     dto.ToUnitShareResponses(shares),
	}, nil
}

func (s *distributionService) Reverse(ctx context.Context, userID, bookingID string) (*dto.ReversalResult, error) {
	logger := s.GetLogger(ctx)

	booking, err := s.bookingRepo.FindBookingForUser(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingDistributed {
		return nil, fmt.Errorf("%w: booking %s is %s, only distributed bookings can be reversed",
			apperrors.ErrConflict, bookingID, booking.Status)
	}

	children, err := s.bookingRepo.FindBySourceProperty(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: no distribution entries found for booking %s", apperrors.ErrNotFound, bookingID)
	}

	now := time.Now()
	mirrors := make([]domain.Booking, len(children))
	for i, child := range children {
		mirror := child
		mirror.BookingID = uuid.NewString()
		mirror.Amount = child.Amount.Neg()
		mirror.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		mirrors[i] = mirror
	}

	if err := s.bookingRepo.SaveReversal(ctx, *booking, mirrors); err != nil {
		s.LogError(ctx, err, "Failed to save reversal", slog.String("booking_id", bookingID))
		return nil, err
	}

	if err := s.reportCache.Bump(ctx); err != nil {
		logger.Warn("Failed to invalidate report cache", slog.String("error", err.Error()))
	}
	if s.analytics != nil {
		s.analytics.Enqueue(userID, "distribution_reversed", map[string]any{
			"booking_id":   bookingID,
			"mirror_count": len(mirrors),
		})
	}

	logger.Info("Distribution reversed",
		slog.String("booking_id", bookingID),
		slog.Int("mirror_count", len(mirrors)))

	return &dto.ReversalResult{
		BookingID: booking.BookingID,
		Status:    string(domain.BookingLocked),
		Mirrors:   dto.ToBookingResponses(mirrors),
	}, nil
}

func (s *distributionService) BuildUnitReport(ctx context.Context, userID, propertyID, unitID string, year int) (*dto.UnitReportResponse, error) {
	unit, err := s.propertyRepo.FindUnitForUser(ctx, userID, unitID)
	if err != nil {
		return nil, err
	}
	if unit.PropertyID != propertyID {
		return nil, fmt.Errorf("%w: unit %s does not belong to property %s", apperrors.ErrNotFound, unitID, propertyID)
	}

	units, err := s.propertyRepo.ListUnitsByProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	propertyBookings, err := s.bookingRepo.ListPropertyBookingsForYear(ctx, userID, propertyID, year)
	if err != nil {
		return nil, err
	}
	unitBookings, err := s.bookingRepo.ListUnitBookingsForYear(ctx, userID, unitID, year)
	if err != nil {
		return nil, err
	}

	var rows []dto.UnitReportRow

	// share rows: the unit's fraction of each key-tagged property booking,
	// computed at report time from the booking period. Reversed (locked)
	// property bookings net to zero and are excluded.
	for _, booking := range propertyBookings {
		if booking.DistributionKeyID == nil || booking.Status == domain.BookingLocked {
			continue
		}
		key, err := s.keyRepo.FindKeyForUser(ctx, userID, *booking.DistributionKeyID)
		if err != nil {
			return nil, err
		}
		details, err := s.engine.ComputeShareDetails(ctx, *key, booking.Period(), *unit, units)
		if err != nil {
			return nil, err
		}
		weight := details.WeightOf()
		rows = append(rows, dto.UnitReportRow{
			BookingID:   booking.BookingID,
			Date:        booking.Date,
			Description: booking.Description,
			Account:     booking.AccountNumber,
			Weight:      weight,
			Total:       booking.Amount,
			ShareAmount: booking.Amount.Mul(decimal.NewFromFloat(weight)).Round(moneyPrecision),
		})
	}

	// direct rows: the unit's own bookings, excluding distribution children
	// whose source row is already represented above.
	for _, booking := range unitBookings {
		if booking.SourcePropertyBookingID != nil {
			continue
		}
		rows = append(rows, dto.UnitReportRow{
			BookingID:   booking.BookingID,
			Date:        booking.Date,
			Description: booking.Description,
			Account:     booking.AccountNumber,
			Weight:      1,
			Total:       booking.Amount,
			ShareAmount: booking.Amount,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	groups := s.groupByTopAccount(ctx, rows)

	return &dto.UnitReportResponse{
		PropertyID: propertyID,
		UnitID:     unitID,
		UnitName:   unit.Name,
		Year:       year,
		Groups:     groups,
	}, nil
}

// groupByTopAccount buckets report rows under their top-level account,
// sorted by top account number.
func (s *distributionService) groupByTopAccount(ctx context.Context, rows []dto.UnitReportRow) []dto.UnitReportGroup {
	byTop := make(map[string]*dto.UnitReportGroup)
	for _, row := range rows {
		top := s.registry.TopAccountNumber(ctx, row.Account)
		if top == "" {
			top = row.Account
		}
		group, ok := byTop[top]
		if !ok {
			group = &dto.UnitReportGroup{
				TopAccount: top,
				Label:      s.registry.Label(ctx, top),
			}
			byTop[top] = group
		}
		group.Rows = append(group.Rows, row)
		group.Sum = group.Sum.Add(row.ShareAmount)
	}

	groups := make([]dto.UnitReportGroup, 0, len(byTop))
	for _, group := range byTop {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].TopAccount < groups[j].TopAccount })
	return groups
}

func (s *distributionService) SumByAccountGrouped(ctx context.Context, userID string, year int, groupBy, groupID string) ([]dto.AccountSumRow, error) {
	switch groupBy {
	case "property", "unit":
	default:
		return nil, fmt.Errorf("%w: groupBy must be property or unit", apperrors.ErrValidation)
	}

	sums, err := s.bookingRepo.SumByAccount(ctx, userID, year, groupBy, groupID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.AccountSumRow, 0, len(sums))
	for account, sum := range sums {
		rows = append(rows, dto.AccountSumRow{
			Account:    account,
			Label:      s.registry.Label(ctx, account),
			TopAccount: s.registry.TopAccountNumber(ctx, account),
			Sum:        sum,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Account < rows[j].Account })
	return rows, nil
}
