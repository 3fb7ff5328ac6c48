package dto

import (
	"time"

	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UnitShareResponse is one unit's allocated portion of a distributed amount.
type UnitShareResponse struct {
	UnitID   string          `json:"unitID"`
	UnitName string          `json:"unitName"`
	Weight   float64         `json:"weight"`
	Amount   decimal.Decimal `json:"amount"`
}

// DistributionPreview reflects the committed state of a distribution: the
// key that was applied, the booking period, the total, and every unit's share.
type DistributionPreview struct {
	BookingID  string              `json:"bookingID"`
	KeyID      string              `json:"keyID"`
	KeyType    string              `json:"keyType"`
	KeyName    string              `json:"keyName"`
	PeriodFrom time.Time           `json:"periodFrom"`
	PeriodTo   time.Time           `json:"periodTo"`
	Total      decimal.Decimal     `json:"total"`
	Shares     []UnitShareResponse `json:"shares"`
}

// ReversalResult reports the mirror bookings written by a reversal.
type ReversalResult struct {
	BookingID string            `json:"bookingID"`
	Status    string            `json:"status"`
	Mirrors   []BookingResponse `json:"mirrors"`
}

// UnitReportRow is one booking's contribution to a unit's yearly report.
type UnitReportRow struct {
	BookingID   string          `json:"bookingID"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Account     string          `json:"account"`
	Weight      float64         `json:"weight"`
	Total       decimal.Decimal `json:"total"`
	ShareAmount decimal.Decimal `json:"shareAmount"`
}

// UnitReportGroup collects a unit's report rows under one top account.
type UnitReportGroup struct {
	TopAccount string          `json:"topAccount"`
	Label      string          `json:"label"`
	Rows       []UnitReportRow `json:"rows"`
	Sum        decimal.Decimal `json:"sum"`
}

// UnitReportResponse is the per-account table of one unit's share of a
// year's property-level bookings.
type UnitReportResponse struct {
	PropertyID string            `json:"propertyID"`
	UnitID     string            `json:"unitID"`
	UnitName   string            `json:"unitName"`
	Year       int               `json:"year"`
	Groups     []UnitReportGroup `json:"groups"`
}

// AccountSumRow is one line of a per-account sum aggregation.
type AccountSumRow struct {
	Account    string          `json:"account"`
	Label      string          `json:"label"`
	TopAccount string          `json:"topAccount"`
	Sum        decimal.Decimal `json:"sum"`
}

// ToUnitShareResponses converts domain shares to DTOs.
func ToUnitShareResponses(shares []domain.UnitShare) []UnitShareResponse {
	responses := make([]UnitShareResponse, len(shares))
	for i, s := range shares {
		responses[i] = UnitShareResponse{
			UnitID:   s.UnitID,
			UnitName: s.UnitName,
			Weight:   s.Weight,
			Amount:   s.Amount,
		}
	}
	return responses
}
