package models

// Property represents one properties row.
type Property struct {
	PropertyID string `db:"property_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	Address    string `db:"address"`
	AuditFields
}

// Unit represents one units row.
type Unit struct {
	UnitID     string  `db:"unit_id"`
	UserID     string  `db:"user_id"`
	PropertyID string  `db:"property_id"`
	Name       string  `db:"name"`
	LivingArea float64 `db:"living_area"`
	AuditFields
}
