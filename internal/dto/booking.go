package dto

import (
	"time"

	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest defines the payload for creating a draft booking.
// At least one of PropertyID/UnitID must be set; a distribution key is only
// allowed on property-scoped bookings.
type CreateBookingRequest struct {
	AccountNumber     string          `json:"accountNumber" binding:"required"`
	Date              time.Time       `json:"date" binding:"required"`
	DeliveryDate      *time.Time      `json:"deliveryDate"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	PropertyID        *string         `json:"propertyID"`
	UnitID            *string         `json:"unitID"`
	DistributionKeyID *string         `json:"distributionKeyID"`
	PeriodFrom        *time.Time      `json:"periodFrom"`
	PeriodTo          *time.Time      `json:"periodTo"`
}

// UpdateBookingRequest defines the fields of a draft booking that may change.
// Pointers differentiate omitted fields from zero values.
type UpdateBookingRequest struct {
	AccountNumber     *string          `json:"accountNumber"`
	Date              *time.Time       `json:"date"`
	DeliveryDate      *time.Time       `json:"deliveryDate"`
	Description       *string          `json:"description"`
	Amount            *decimal.Decimal `json:"amount"`
	DistributionKeyID *string          `json:"distributionKeyID"`
	PeriodFrom        *time.Time       `json:"periodFrom"`
	PeriodTo          *time.Time       `json:"periodTo"`
}

// ListBookingsParams defines query parameters for listing bookings.
type ListBookingsParams struct {
	Year       int     `form:"year"`
	PropertyID *string `form:"propertyID"`
	UnitID     *string `form:"unitID"`
	Limit      int     `form:"limit,default=20"`
	NextToken  *string `form:"nextToken"`
}

// BookingResponse defines the data returned for a booking.
type BookingResponse struct {
	BookingID               string          `json:"bookingID"`
	AccountNumber           string          `json:"accountNumber"`
	Date                    time.Time       `json:"date"`
	DeliveryDate            time.Time       `json:"deliveryDate"`
	Description             string          `json:"description"`
	Amount                  decimal.Decimal `json:"amount"`
	Year                    int             `json:"year"`
	PropertyID              *string         `json:"propertyID,omitempty"`
	UnitID                  *string         `json:"unitID,omitempty"`
	DistributionKeyID       *string         `json:"distributionKeyID,omitempty"`
	Status                  string          `json:"status"`
	PeriodFrom              time.Time       `json:"periodFrom"`
	PeriodTo                time.Time       `json:"periodTo"`
	SourcePropertyBookingID *string         `json:"sourcePropertyBookingID,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
}

// ListBookingsResponse wraps a page of bookings with the next page token.
type ListBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToBookingResponse converts a domain.Booking to BookingResponse DTO.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:               b.BookingID,
		AccountNumber:           b.AccountNumber,
		Date:                    b.Date,
		DeliveryDate:            b.DeliveryDate,
		Description:             b.Description,
		Amount:                  b.Amount,
		Year:                    b.Year,
		PropertyID:              b.PropertyID,
		UnitID:                  b.UnitID,
		DistributionKeyID:       b.DistributionKeyID,
		Status:                  string(b.Status),
		PeriodFrom:              b.PeriodFrom,
		PeriodTo:                b.PeriodTo,
		SourcePropertyBookingID: b.SourcePropertyBookingID,
		CreatedAt:               b.CreatedAt,
	}
}

// ToBookingResponses converts a slice of domain.Booking to []BookingResponse.
func ToBookingResponses(bookings []domain.Booking) []BookingResponse {
	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = ToBookingResponse(&bookings[i])
	}
	return responses
}
