package domain

// Property is a building (or building complex) owned or managed by a user.
type Property struct {
	PropertyID string `json:"propertyID"` // Primary key (UUID)
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	AuditFields
}

// Unit is one rentable unit inside a property. The living area feeds
// area-type distribution keys when no explicit per-unit value overrides it.
type Unit struct {
	UnitID     string  `json:"unitID"` // Primary key (UUID)
	UserID     string  `json:"userID"`
	PropertyID string  `json:"propertyID"`
	Name       string  `json:"name"`
	LivingArea float64 `json:"livingArea"` // m², 0 means unknown
	AuditFields
}
