package models

import "time"

// DistributionKey represents one distribution_keys row. The type-specific
// configuration is stored as a JSONB blob and parsed at the mapping boundary.
type DistributionKey struct {
	KeyID      string     `db:"key_id"`
	UserID     string     `db:"user_id"`
	PropertyID string     `db:"property_id"`
	Type       string     `db:"type"`
	Name       string     `db:"name"`
	Config     []byte     `db:"config"`
	ValidFrom  *time.Time `db:"valid_from"`
	ValidTo    *time.Time `db:"valid_to"`
	AuditFields
}

// DistributionKeyUnit represents one distribution_key_units row.
type DistributionKeyUnit struct {
	EntryID   string     `db:"entry_id"`
	KeyID     string     `db:"key_id"`
	UnitID    string     `db:"unit_id"`
	Value     float64    `db:"value"`
	ValidFrom *time.Time `db:"valid_from"`
	ValidTo   *time.Time `db:"valid_to"`
	AuditFields
}
