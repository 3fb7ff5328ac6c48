package services

import (
	"context"

	"github.com/Rello/domus-sub002/internal/dto"
)

// StatisticsSvcFacade assembles per-unit year rows of derived financial
// columns from raw account sums and the built-in rule sets.
type StatisticsSvcFacade interface {
	// BuildAllYears evaluates the named rule set ("revenue" or "cost") for
	// every year a unit has bookings, sorted by year descending. Each year
	// is evaluated independently.
	BuildAllYears(ctx context.Context, userID, unitID, set string) (*dto.StatisticsResponse, error)
}
