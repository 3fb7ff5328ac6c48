package dto

import "github.com/Rello/domus-sub002/internal/core/domain"

// CreatePropertyRequest defines the payload for creating a property.
type CreatePropertyRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// CreateUnitRequest defines the payload for creating a unit.
type CreateUnitRequest struct {
	Name       string  `json:"name" binding:"required"`
	LivingArea float64 `json:"livingArea" binding:"gte=0"`
}

// PropertyResponse defines the data returned for a property.
type PropertyResponse struct {
	PropertyID string `json:"propertyID"`
	Name       string `json:"name"`
	Address    string `json:"address"`
}

// UnitResponse defines the data returned for a unit.
type UnitResponse struct {
	UnitID     string  `json:"unitID"`
	PropertyID string  `json:"propertyID"`
	Name       string  `json:"name"`
	LivingArea float64 `json:"livingArea"`
}

// ToPropertyResponse converts a domain.Property to PropertyResponse DTO.
func ToPropertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{PropertyID: p.PropertyID, Name: p.Name, Address: p.Address}
}

// ToPropertyResponses converts a slice of domain.Property to []PropertyResponse.
func ToPropertyResponses(properties []domain.Property) []PropertyResponse {
	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i])
	}
	return responses
}

// ToUnitResponse converts a domain.Unit to UnitResponse DTO.
func ToUnitResponse(u *domain.Unit) UnitResponse {
	return UnitResponse{UnitID: u.UnitID, PropertyID: u.PropertyID, Name: u.Name, LivingArea: u.LivingArea}
}

// ToUnitResponses converts a slice of domain.Unit to []UnitResponse.
func ToUnitResponses(units []domain.Unit) []UnitResponse {
	responses := make([]UnitResponse, len(units))
	for i := range units {
		responses[i] = ToUnitResponse(&units[i])
	}
	return responses
}
