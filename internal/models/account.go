package models

// AccountStatus mirrors the lifecycle state stored in the accounts table.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountDisabled AccountStatus = "DISABLED"
)

// Account represents one chart-of-accounts row.
// Note: ParentNumber is a nullable self reference.
type Account struct {
	Number       string        `db:"number"`
	LabelDe      string        `db:"label_de"`
	LabelEn      string        `db:"label_en"`
	ParentNumber *string       `db:"parent_number"`
	Status       AccountStatus `db:"status"`
	IsSystem     bool          `db:"is_system"`
	SortOrder    int           `db:"sort_order"`
	AuditFields
}
