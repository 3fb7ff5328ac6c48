package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/models"
)

// ToModelDistributionKey converts a domain DistributionKey to a model
// DistributionKey, marshalling the typed configuration into its JSONB blob.
func ToModelDistributionKey(d domain.DistributionKey) (models.DistributionKey, error) {
	raw, err := json.Marshal(d.Config)
	if err != nil {
		return models.DistributionKey{}, fmt.Errorf("%w: cannot encode key configuration: %v", apperrors.ErrConfiguration, err)
	}
	return models.DistributionKey{
		KeyID:       d.KeyID,
		UserID:      d.UserID,
		PropertyID:  d.PropertyID,
		Type:        string(d.Type),
		Name:        d.Name,
		Config:      raw,
		ValidFrom:   d.ValidFrom,
		ValidTo:     d.ValidTo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainDistributionKey converts a model DistributionKey to a domain
// DistributionKey, parsing and validating the stored configuration.
func ToDomainDistributionKey(m models.DistributionKey) (domain.DistributionKey, error) {
	cfg, err := domain.ParseKeyConfig(domain.DistributionKeyType(m.Type), m.Config)
	if err != nil {
		return domain.DistributionKey{}, err
	}
	return domain.DistributionKey{
		KeyID:       m.KeyID,
		UserID:      m.UserID,
		PropertyID:  m.PropertyID,
		Type:        domain.DistributionKeyType(m.Type),
		Name:        m.Name,
		Config:      cfg,
		ValidFrom:   m.ValidFrom,
		ValidTo:     m.ValidTo,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainDistributionKeySlice converts a slice of model DistributionKeys to
// domain DistributionKeys.
func ToDomainDistributionKeySlice(ms []models.DistributionKey) ([]domain.DistributionKey, error) {
	ds := make([]domain.DistributionKey, len(ms))
	for i, m := range ms {
		d, err := ToDomainDistributionKey(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToModelDistributionKeyUnit converts a domain DistributionKeyUnit to a model
// DistributionKeyUnit.
func ToModelDistributionKeyUnit(d domain.DistributionKeyUnit) models.DistributionKeyUnit {
	return models.DistributionKeyUnit{
		EntryID:     d.EntryID,
		KeyID:       d.KeyID,
		UnitID:      d.UnitID,
		Value:       d.Value,
		ValidFrom:   d.ValidFrom,
		ValidTo:     d.ValidTo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDistributionKeyUnit converts a model DistributionKeyUnit to a domain
// DistributionKeyUnit.
func ToDomainDistributionKeyUnit(m models.DistributionKeyUnit) domain.DistributionKeyUnit {
	return domain.DistributionKeyUnit{
		EntryID:     m.EntryID,
		KeyID:       m.KeyID,
		UnitID:      m.UnitID,
		Value:       m.Value,
		ValidFrom:   m.ValidFrom,
		ValidTo:     m.ValidTo,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDistributionKeyUnitSlice converts a slice of model
// DistributionKeyUnits to domain DistributionKeyUnits.
func ToDomainDistributionKeyUnitSlice(ms []models.DistributionKeyUnit) []domain.DistributionKeyUnit {
	ds := make([]domain.DistributionKeyUnit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDistributionKeyUnit(m)
	}
	return ds
}
