package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// Period is the service-date range a booking's cost is attributed to,
// distinct from the invoice date.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Overlaps reports whether the period intersects [from, to]. A nil from/to
// bound on the other side means open-ended.
func (p Period) Overlaps(validFrom, validTo *time.Time) bool {
	if validFrom != nil && validFrom.After(p.To) {
		return false
	}
	if validTo != nil && validTo.Before(p.From) {
		return false
	}
	return true
}
