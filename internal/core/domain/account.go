package domain

// AccountStatus indicates whether an account may be used on new bookings.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountDisabled AccountStatus = "DISABLED"
)

// Account is one entry of the chart of accounts. The number is the unique
// business key; parent numbers link accounts into a tree whose root is the
// "top account" used to group report lines.
type Account struct {
	Number       string        `json:"number"` // chart-of-accounts code, unique
	LabelDe      string        `json:"labelDe"`
	LabelEn      string        `json:"labelEn"`
	ParentNumber *string       `json:"parentNumber,omitempty"` // nullable self reference
	Status       AccountStatus `json:"status"`
	IsSystem     bool          `json:"isSystem"` // built-ins cannot be deleted
	SortOrder    int           `json:"sortOrder"`
	AuditFields
}

// IsActive reports whether the account may be used on new bookings.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// Label returns the display label for the given language ("de" or "en"),
// falling back to the other language when the requested one is empty.
func (a Account) Label(lang string) string {
	if lang == "en" {
		if a.LabelEn != "" {
			return a.LabelEn
		}
		return a.LabelDe
	}
	if a.LabelDe != "" {
		return a.LabelDe
	}
	return a.LabelEn
}
