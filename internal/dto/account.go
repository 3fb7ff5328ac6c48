package dto

import "github.com/Rello/domus-sub002/internal/core/domain"

// CreateAccountRequest defines the payload for creating a custom account.
type CreateAccountRequest struct {
	Number       string  `json:"number" binding:"required,accountnumber"`
	LabelDe      string  `json:"labelDe"`
	LabelEn      string  `json:"labelEn"`
	ParentNumber *string `json:"parentNumber"`
	SortOrder    int     `json:"sortOrder"`
}

// AccountResponse defines the data returned for a chart-of-accounts entry.
type AccountResponse struct {
	Number       string  `json:"number"`
	LabelDe      string  `json:"labelDe"`
	LabelEn      string  `json:"labelEn"`
	ParentNumber *string `json:"parentNumber,omitempty"`
	Status       string  `json:"status"`
	IsSystem     bool    `json:"isSystem"`
	SortOrder    int     `json:"sortOrder"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Number:       a.Number,
		LabelDe:      a.LabelDe,
		LabelEn:      a.LabelEn,
		ParentNumber: a.ParentNumber,
		Status:       string(a.Status),
		IsSystem:     a.IsSystem,
		SortOrder:    a.SortOrder,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
