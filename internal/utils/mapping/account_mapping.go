package mapping

import (
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Number:       d.Number,
		LabelDe:      d.LabelDe,
		LabelEn:      d.LabelEn,
		ParentNumber: d.ParentNumber,
		Status:       models.AccountStatus(d.Status),
		IsSystem:     d.IsSystem,
		SortOrder:    d.SortOrder,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Number:       m.Number,
		LabelDe:      m.LabelDe,
		LabelEn:      m.LabelEn,
		ParentNumber: m.ParentNumber,
		Status:       domain.AccountStatus(m.Status),
		IsSystem:     m.IsSystem,
		SortOrder:    m.SortOrder,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
