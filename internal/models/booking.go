package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus mirrors the lifecycle state stored in the bookings table.
type BookingStatus string

const (
	BookingDraft       BookingStatus = "DRAFT"
	BookingDistributed BookingStatus = "DISTRIBUTED"
	BookingLocked      BookingStatus = "LOCKED"
)

// Booking represents one bookings row.
type Booking struct {
	BookingID               string          `db:"booking_id"`
	UserID                  string          `db:"user_id"`
	AccountNumber           string          `db:"account_number"`
	Date                    time.Time       `db:"date"`
	DeliveryDate            time.Time       `db:"delivery_date"`
	Description             string          `db:"description"`
	Amount                  decimal.Decimal `db:"amount"`
	Year                    int             `db:"year"`
	PropertyID              *string         `db:"property_id"`
	UnitID                  *string         `db:"unit_id"`
	DistributionKeyID       *string         `db:"distribution_key_id"`
	Status                  BookingStatus   `db:"status"`
	PeriodFrom              time.Time       `db:"period_from"`
	PeriodTo                time.Time       `db:"period_to"`
	SourcePropertyBookingID *string         `db:"source_property_booking_id"`
	AuditFields
}
