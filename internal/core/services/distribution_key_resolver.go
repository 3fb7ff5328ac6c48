package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
)

// DistributionKeyResolver materializes the per-unit raw values of a
// distribution key for a booking period. It applies the key's own validity
// window, selects the applicable value entry per unit, and falls back to
// type-specific defaults where the key type allows one.
type DistributionKeyResolver struct {
	entryRepo portsrepo.DistributionKeyUnitReader
}

// NewDistributionKeyResolver creates a new DistributionKeyResolver.
func NewDistributionKeyResolver(entryRepo portsrepo.DistributionKeyUnitReader) *DistributionKeyResolver {
	return &DistributionKeyResolver{entryRepo: entryRepo}
}

// ResolveUnitValues returns the raw distribution value of every unit for the
// period. Mixed keys cannot be resolved directly; the allocation engine
// resolves them part by part.
//
// Entry selection per unit: of the entries whose validity overlaps the
// period, the one with the latest validFrom wins; ties fall to the entry
// created last.
func (r *DistributionKeyResolver) ResolveUnitValues(ctx context.Context, key domain.DistributionKey, period domain.Period, units []domain.Unit) (map[string]float64, error) {
	if key.Type == domain.KeyMixed {
		return nil, fmt.Errorf("%w: mixed key %q must be resolved per part", apperrors.ErrConfiguration, key.Name)
	}
	if !key.CoversPeriod(period) {
		return nil, fmt.Errorf("%w: key %q is not valid for period %s to %s",
			apperrors.ErrConfiguration, key.Name,
			period.From.Format("2006-01-02"), period.To.Format("2006-01-02"))
	}

	entries, err := r.entryRepo.FindValidForKey(ctx, key.KeyID, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load key values: %w", err)
	}

	applicable := selectApplicableEntries(entries, period)

	values := make(map[string]float64, len(units))
	for _, unit := range units {
		entry, ok := applicable[unit.UnitID]
		if ok {
			values[unit.UnitID] = entry.Value
			continue
		}

		switch key.Type {
		case domain.KeyUnit:
			// every unit counts once unless overridden
			values[unit.UnitID] = 1
		case domain.KeyArea:
			if unit.LivingArea <= 0 {
				return nil, apperrors.NewMissingValueError(unit.UnitID, unit.Name)
			}
			values[unit.UnitID] = unit.LivingArea
		default:
			// mea, persons, consumption and manual have no fallback
			return nil, apperrors.NewMissingValueError(unit.UnitID, unit.Name)
		}
	}

	return values, nil
}

// selectApplicableEntries picks, per unit, the entry with the latest
// validFrom among those overlapping the period. An unset validFrom counts as
// the open past. Ties on validFrom fall to the entry created last.
func selectApplicableEntries(entries []domain.DistributionKeyUnit, period domain.Period) map[string]domain.DistributionKeyUnit {
	applicable := make(map[string]domain.DistributionKeyUnit)
	for _, entry := range entries {
		if !period.Overlaps(entry.ValidFrom, entry.ValidTo) {
			continue
		}
		current, exists := applicable[entry.UnitID]
		if !exists || entryStart(entry).After(entryStart(current)) ||
			(entryStart(entry).Equal(entryStart(current)) && entry.CreatedAt.After(current.CreatedAt)) {
			applicable[entry.UnitID] = entry
		}
	}
	return applicable
}

func entryStart(entry domain.DistributionKeyUnit) time.Time {
	if entry.ValidFrom == nil {
		return time.Time{}
	}
	return *entry.ValidFrom
}
