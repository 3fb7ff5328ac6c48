package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DistributionKeyType selects how a property-level cost is split across units.
type DistributionKeyType string

const (
	KeyArea        DistributionKeyType = "area"        // living area / configured base
	KeyMea         DistributionKeyType = "mea"         // co-ownership share / configured base
	KeyUnit        DistributionKeyType = "unit"        // unit count / configured base
	KeyPersons     DistributionKeyType = "persons"     // persons, normalized by sum
	KeyConsumption DistributionKeyType = "consumption" // metered values, normalized by sum
	KeyMixed       DistributionKeyType = "mixed"       // weighted combination of parts
	KeyManual      DistributionKeyType = "manual"      // hand-entered values, normalized by sum
)

// MixedPart is one weighted component of a mixed distribution key.
type MixedPart struct {
	Type   DistributionKeyType `json:"type"`
	Weight float64             `json:"weight"`
}

// KeyConfig is the parsed, type-specific configuration of a distribution key.
// Base is the denominator for area/mea/unit keys; Parts is set for mixed keys.
type KeyConfig struct {
	Base  float64     `json:"base,omitempty"`
	Parts []MixedPart `json:"parts,omitempty"`
}

// ParseKeyConfig parses the stored configuration JSON into a typed KeyConfig
// and rejects configurations that can never allocate: a nested mixed part, or
// mixed without parts. An empty blob yields a zero config.
func ParseKeyConfig(keyType DistributionKeyType, raw []byte) (KeyConfig, error) {
	var cfg KeyConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return KeyConfig{}, fmt.Errorf("%w: malformed key configuration: %v", apperrors.ErrConfiguration, err)
		}
	}
	if keyType == KeyMixed {
		if len(cfg.Parts) == 0 {
			return KeyConfig{}, fmt.Errorf("%w: mixed key requires at least one part", apperrors.ErrConfiguration)
		}
		for _, part := range cfg.Parts {
			if part.Type == KeyMixed {
				return KeyConfig{}, fmt.Errorf("%w: nested mixed parts are not allowed", apperrors.ErrConfiguration)
			}
		}
	}
	return cfg, nil
}

// DistributionKey is a named rule for splitting a property-level cost
// across the property's units.
type DistributionKey struct {
	KeyID      string              `json:"keyID"` // Primary key (UUID)
	UserID     string              `json:"userID"`
	PropertyID string              `json:"propertyID"`
	Type       DistributionKeyType `json:"type"`
	Name       string              `json:"name"`
	Config     KeyConfig           `json:"config"`
	ValidFrom  *time.Time          `json:"validFrom,omitempty"` // nil means open start
	ValidTo    *time.Time          `json:"validTo,omitempty"`   // nil means open end
	AuditFields
}

// CoversPeriod reports whether the key's own validity window covers the
// booking period: validFrom must not start after the period ends and validTo,
// when set, must not end before the period starts.
func (k DistributionKey) CoversPeriod(period Period) bool {
	return period.Overlaps(k.ValidFrom, k.ValidTo)
}

// DistributionKeyUnit is one per-unit numeric value entry of a key. Multiple
// entries may exist per (key, unit) across time; values are appended, never
// mutated after period-based reads.
type DistributionKeyUnit struct {
	EntryID   string     `json:"entryID"` // Primary key (UUID)
	KeyID     string     `json:"keyID"`
	UnitID    string     `json:"unitID"`
	Value     float64    `json:"value"` // > 0
	ValidFrom *time.Time `json:"validFrom,omitempty"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
	AuditFields
}

// UnitShare is one unit's allocated portion of a distributed amount.
type UnitShare struct {
	UnitID   string          `json:"unitID"`
	UnitName string          `json:"unitName"`
	Weight   float64         `json:"weight"`
	Amount   decimal.Decimal `json:"amount"`
}

// ShareDetails carries the raw share value and the shared base for
// point-in-time reporting, so report rows can compute value/base without
// accumulating independent rounding error.
type ShareDetails struct {
	Value float64 `json:"value"`
	Base  float64 `json:"base"`
}

// WeightOf returns the fractional portion value/base, or 0 for a zero base.
func (d ShareDetails) WeightOf() float64 {
	if d.Base == 0 {
		return 0
	}
	return d.Value / d.Base
}
