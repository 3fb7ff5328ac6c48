package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus indicates the lifecycle state of a booking.
// Property bookings move draft -> distributed -> locked; unit bookings
// move draft -> locked directly. Locked is terminal.
type BookingStatus string

const (
	BookingDraft       BookingStatus = "DRAFT"
	BookingDistributed BookingStatus = "DISTRIBUTED"
	BookingLocked      BookingStatus = "LOCKED"
)

// Booking represents one financial entry tied to a property and/or unit and
// an account. A property-level booking may carry a distribution key and be
// distributed across the property's units later.
type Booking struct {
	BookingID     string          `json:"bookingID"` // Primary key (UUID)
	UserID        string          `json:"userID"`
	AccountNumber string          `json:"accountNumber"` // FK -> Account.Number
	Date          time.Time       `json:"date"`          // invoice date
	DeliveryDate  time.Time       `json:"deliveryDate"`  // service-rendered date
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"` // signed
	Year          int             `json:"year"`   // derived from Date

	// At least one of PropertyID/UnitID is set. A booking with only
	// PropertyID targets the whole property; one with UnitID is final.
	PropertyID *string `json:"propertyID,omitempty"`
	UnitID     *string `json:"unitID,omitempty"`

	// Only meaningful when PropertyID is set and UnitID is not.
	DistributionKeyID *string `json:"distributionKeyID,omitempty"`

	Status     BookingStatus `json:"status"`
	PeriodFrom time.Time     `json:"periodFrom"` // defaults to Date
	PeriodTo   time.Time     `json:"periodTo"`   // defaults to Date

	// Set on child bookings created by distribution, and on the negative
	// mirror entries written by a reversal.
	SourcePropertyBookingID *string `json:"sourcePropertyBookingID,omitempty"`

	AuditFields
}

// Period returns the service period of the booking.
func (b Booking) Period() Period {
	return Period{From: b.PeriodFrom, To: b.PeriodTo}
}

// IsPropertyScoped reports whether the booking targets a whole property
// (and is therefore a candidate for distribution).
func (b Booking) IsPropertyScoped() bool {
	return b.PropertyID != nil && b.UnitID == nil
}
