package services

import (
	"context"
	"fmt"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// moneyPrecision is the decimal scale of allocated amounts.
const moneyPrecision = 2

// AllocationEngine turns a distribution key and a set of units into
// fractional weights and, from those, into per-unit monetary shares whose
// sum is exactly the distributed total.
type AllocationEngine struct {
	resolver *DistributionKeyResolver
}

// NewAllocationEngine creates a new AllocationEngine.
func NewAllocationEngine(resolver *DistributionKeyResolver) *AllocationEngine {
	return &AllocationEngine{resolver: resolver}
}

// ComputeWeights computes every unit's fractional weight for the key and
// period. Base-type keys (area, mea, unit) divide the raw value by the
// configured base; sum-type keys (persons, consumption, manual) normalize by
// the sum of all values; mixed keys combine the part weights and normalize
// the result so the weights always sum to 1.
func (e *AllocationEngine) ComputeWeights(ctx context.Context, key domain.DistributionKey, period domain.Period, units []domain.Unit) (map[string]float64, error) {
	switch key.Type {
	case domain.KeyMixed:
		return e.computeMixedWeights(ctx, key, period, units)
	case domain.KeyArea, domain.KeyMea, domain.KeyUnit:
		values, err := e.resolver.ResolveUnitValues(ctx, key, period, units)
		if err != nil {
			return nil, err
		}
		if key.Config.Base <= 0 {
			return nil, fmt.Errorf("%w: key %q has no allocation base", apperrors.ErrConfiguration, key.Name)
		}
		weights := make(map[string]float64, len(values))
		for unitID, value := range values {
			weights[unitID] = value / key.Config.Base
		}
		return weights, nil
	case domain.KeyPersons, domain.KeyConsumption, domain.KeyManual:
		values, err := e.resolver.ResolveUnitValues(ctx, key, period, units)
		if err != nil {
			return nil, err
		}
		return normalizeBySum(key, values)
	default:
		return nil, fmt.Errorf("%w: unknown key type %q", apperrors.ErrConfiguration, key.Type)
	}
}

// computeMixedWeights resolves each part as if it were a standalone key of
// the part's type, normalizes each part to a proper distribution, then
// combines them by part weight. The combined weights are normalized again so
// they sum to 1 regardless of the part weights' scale.
func (e *AllocationEngine) computeMixedWeights(ctx context.Context, key domain.DistributionKey, period domain.Period, units []domain.Unit) (map[string]float64, error) {
	if len(key.Config.Parts) == 0 {
		return nil, fmt.Errorf("%w: mixed key %q has no parts", apperrors.ErrConfiguration, key.Name)
	}

	combined := make(map[string]float64, len(units))
	var totalPartWeight float64

	for _, part := range key.Config.Parts {
		if part.Type == domain.KeyMixed {
			return nil, fmt.Errorf("%w: mixed key %q nests a mixed part", apperrors.ErrConfiguration, key.Name)
		}
		if part.Weight <= 0 {
			continue
		}

		partKey := key
		partKey.Type = part.Type
		values, err := e.resolver.ResolveUnitValues(ctx, partKey, period, units)
		if err != nil {
			return nil, err
		}
		partWeights, err := normalizeBySum(partKey, values)
		if err != nil {
			return nil, err
		}

		for unitID, w := range partWeights {
			combined[unitID] += part.Weight * w
		}
		totalPartWeight += part.Weight
	}

	if totalPartWeight <= 0 {
		return nil, fmt.Errorf("%w: mixed key %q has zero total part weight", apperrors.ErrConfiguration, key.Name)
	}
	for unitID := range combined {
		combined[unitID] /= totalPartWeight
	}
	return combined, nil
}

// Allocate converts weights into monetary shares. Every share but the last
// is total*weight rounded to cents; the last unit receives the rounded
// remainder so the shares always sum exactly to the total rounded to cents.
func (e *AllocationEngine) Allocate(units []domain.Unit, weights map[string]float64, total decimal.Decimal) ([]domain.UnitShare, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: no units to allocate to", apperrors.ErrConfiguration)
	}

	shares := make([]domain.UnitShare, 0, len(units))
	allocated := decimal.Zero

	for i, unit := range units {
		weight, ok := weights[unit.UnitID]
		if !ok {
			return nil, apperrors.NewMissingValueError(unit.UnitID, unit.Name)
		}

		var amount decimal.Decimal
		if i == len(units)-1 {
			amount = total.Sub(allocated).Round(moneyPrecision)
		} else {
			amount = total.Mul(decimal.NewFromFloat(weight)).Round(moneyPrecision)
		}
		allocated = allocated.Add(amount)

		shares = append(shares, domain.UnitShare{
			UnitID:   unit.UnitID,
			UnitName: unit.Name,
			Weight:   weight,
			Amount:   amount,
		})
	}

	return shares, nil
}

// ComputeShareDetails returns a single unit's raw value and the shared base
// for point-in-time reporting. For mixed keys the combined weight is
// reported over a base of 1.
func (e *AllocationEngine) ComputeShareDetails(ctx context.Context, key domain.DistributionKey, period domain.Period, unit domain.Unit, units []domain.Unit) (domain.ShareDetails, error) {
	switch key.Type {
	case domain.KeyMixed:
		weights, err := e.computeMixedWeights(ctx, key, period, units)
		if err != nil {
			return domain.ShareDetails{}, err
		}
		weight, ok := weights[unit.UnitID]
		if !ok {
			return domain.ShareDetails{}, fmt.Errorf("%w: unit %q is not part of key %q", apperrors.ErrConfiguration, unit.Name, key.Name)
		}
		return domain.ShareDetails{Value: weight, Base: 1}, nil
	case domain.KeyArea, domain.KeyMea, domain.KeyUnit:
		values, err := e.resolver.ResolveUnitValues(ctx, key, period, units)
		if err != nil {
			return domain.ShareDetails{}, err
		}
		value, ok := values[unit.UnitID]
		if !ok {
			return domain.ShareDetails{}, fmt.Errorf("%w: unit %q is not part of key %q", apperrors.ErrConfiguration, unit.Name, key.Name)
		}
		if key.Config.Base <= 0 {
			return domain.ShareDetails{}, fmt.Errorf("%w: key %q has no allocation base", apperrors.ErrConfiguration, key.Name)
		}
		return domain.ShareDetails{Value: value, Base: key.Config.Base}, nil
	default:
		values, err := e.resolver.ResolveUnitValues(ctx, key, period, units)
		if err != nil {
			return domain.ShareDetails{}, err
		}
		value, ok := values[unit.UnitID]
		if !ok {
			return domain.ShareDetails{}, fmt.Errorf("%w: unit %q is not part of key %q", apperrors.ErrConfiguration, unit.Name, key.Name)
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		if sum <= 0 {
			return domain.ShareDetails{}, fmt.Errorf("%w: key %q has a zero value sum", apperrors.ErrConfiguration, key.Name)
		}
		return domain.ShareDetails{Value: value, Base: sum}, nil
	}
}

// normalizeBySum divides each value by the sum of all values.
func normalizeBySum(key domain.DistributionKey, values map[string]float64) (map[string]float64, error) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: key %q has a zero value sum", apperrors.ErrConfiguration, key.Name)
	}
	weights := make(map[string]float64, len(values))
	for unitID, v := range values {
		weights[unitID] = v / sum
	}
	return weights, nil
}
