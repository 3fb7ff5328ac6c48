package services

import (
	"context"

	"github.com/Rello/domus-sub002/internal/dto"
)

// DistributionSvcFacade drives the cost-distribution state machine on
// property bookings: draft --distribute--> distributed --reverse--> locked.
type DistributionSvcFacade interface {
	// Distribute allocates a draft property booking across the property's
	// units, inserting one locked child booking per unit and flipping the
	// original to distributed, all within one transaction. Returns a
	// preview reflecting the committed state.
	Distribute(ctx context.Context, userID, bookingID string) (*dto.DistributionPreview, error)

	// Reverse writes, for each child booking of a distributed booking, a
	// mirror entry with negated amount, then flips the original to locked.
	// The reversal is additive; nothing is deleted.
	Reverse(ctx context.Context, userID, bookingID string) (*dto.ReversalResult, error)

	// BuildUnitReport produces a unit's share of one year's property-level
	// bookings, grouped by top account and sorted by booking date.
	BuildUnitReport(ctx context.Context, userID, propertyID, unitID string, year int) (*dto.UnitReportResponse, error)

	// SumByAccountGrouped returns per-account sums of one year's bookings
	// for a property or unit scope, with resolved labels.
	SumByAccountGrouped(ctx context.Context, userID string, year int, groupBy, groupID string) ([]dto.AccountSumRow, error)
}
