package dto

import (
	"time"

	"github.com/Rello/domus-sub002/internal/core/domain"
)

// KeyConfigPayload mirrors domain.KeyConfig for request binding.
type KeyConfigPayload struct {
	Base  float64 `json:"base,omitempty"`
	Parts []struct {
		Type   string  `json:"type"`
		Weight float64 `json:"weight"`
	} `json:"parts,omitempty"`
}

// CreateDistributionKeyRequest defines the payload for creating a key.
type CreateDistributionKeyRequest struct {
	Type      string           `json:"type" binding:"required,oneof=area mea unit persons consumption mixed manual"`
	Name      string           `json:"name" binding:"required"`
	Config    KeyConfigPayload `json:"config"`
	ValidFrom *time.Time       `json:"validFrom"`
	ValidTo   *time.Time       `json:"validTo"`
}

// CreateKeyUnitValueRequest defines the payload for appending a per-unit
// value entry to a key.
type CreateKeyUnitValueRequest struct {
	UnitID    string     `json:"unitID" binding:"required"`
	Value     float64    `json:"value" binding:"required,gt=0"`
	ValidFrom *time.Time `json:"validFrom"`
	ValidTo   *time.Time `json:"validTo"`
}

// DistributionKeyResponse defines the data returned for a key.
type DistributionKeyResponse struct {
	KeyID      string           `json:"keyID"`
	PropertyID string           `json:"propertyID"`
	Type       string           `json:"type"`
	Name       string           `json:"name"`
	Config     domain.KeyConfig `json:"config"`
	ValidFrom  *time.Time       `json:"validFrom,omitempty"`
	ValidTo    *time.Time       `json:"validTo,omitempty"`
}

// KeyUnitValueResponse defines the data returned for a per-unit value entry.
type KeyUnitValueResponse struct {
	EntryID   string     `json:"entryID"`
	UnitID    string     `json:"unitID"`
	Value     float64    `json:"value"`
	ValidFrom *time.Time `json:"validFrom,omitempty"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
}

// ToDistributionKeyResponse converts a domain key to its DTO.
func ToDistributionKeyResponse(k *domain.DistributionKey) DistributionKeyResponse {
	return DistributionKeyResponse{
		KeyID:      k.KeyID,
		PropertyID: k.PropertyID,
		Type:       string(k.Type),
		Name:       k.Name,
		Config:     k.Config,
		ValidFrom:  k.ValidFrom,
		ValidTo:    k.ValidTo,
	}
}

// ToKeyUnitValueResponses converts domain entries to DTOs.
func ToKeyUnitValueResponses(entries []domain.DistributionKeyUnit) []KeyUnitValueResponse {
	responses := make([]KeyUnitValueResponse, len(entries))
	for i, e := range entries {
		responses[i] = KeyUnitValueResponse{
			EntryID:   e.EntryID,
			UnitID:    e.UnitID,
			Value:     e.Value,
			ValidFrom: e.ValidFrom,
			ValidTo:   e.ValidTo,
		}
	}
	return responses
}
