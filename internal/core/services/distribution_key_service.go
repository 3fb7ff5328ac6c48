package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/google/uuid"
)

// distributionKeyService manages distribution keys and their append-only
// per-unit value entries.
type distributionKeyService struct {
	BaseService
	keyRepo      portsrepo.DistributionKeyRepositoryFacade
	propertyRepo portsrepo.PropertyRepositoryFacade
}

var _ portssvc.DistributionKeySvcFacade = (*distributionKeyService)(nil)

// NewDistributionKeyService creates a new distribution key service.
func NewDistributionKeyService(
	keyRepo portsrepo.DistributionKeyRepositoryFacade,
	propertyRepo portsrepo.PropertyRepositoryFacade,
) portssvc.DistributionKeySvcFacade {
	return &distributionKeyService{keyRepo: keyRepo, propertyRepo: propertyRepo}
}

func (s *distributionKeyService) CreateKey(ctx context.Context, propertyID string, req dto.CreateDistributionKeyRequest, userID string) (*domain.DistributionKey, error) {
	logger := s.GetLogger(ctx)

	if _, err := s.propertyRepo.FindPropertyForUser(ctx, userID, propertyID); err != nil {
		return nil, err
	}

	keyType := domain.DistributionKeyType(req.Type)
	raw, err := json.Marshal(req.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed key configuration", apperrors.ErrValidation)
	}
	config, err := domain.ParseKeyConfig(keyType, raw)
	if err != nil {
		return nil, err
	}

	switch keyType {
	case domain.KeyArea, domain.KeyMea, domain.KeyUnit:
		if config.Base <= 0 {
			return nil, fmt.Errorf("%w: %s keys require a positive base", apperrors.ErrValidation, keyType)
		}
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidFrom.After(*req.ValidTo) {
		return nil, fmt.Errorf("%w: validFrom is after validTo", apperrors.ErrValidation)
	}

	now := time.Now()
	key := domain.DistributionKey{
		KeyID:      uuid.NewString(),
		UserID:     userID,
		PropertyID: propertyID,
		Type:       keyType,
		Name:       req.Name,
		Config:     config,
		ValidFrom:  req.ValidFrom,
		ValidTo:    req.ValidTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.keyRepo.SaveKey(ctx, key); err != nil {
		s.LogError(ctx, err, "Failed to save distribution key")
		return nil, fmt.Errorf("failed to save distribution key: %w", err)
	}

	logger.Info("Distribution key created",
		slog.String("key_id", key.KeyID),
		slog.String("type", string(key.Type)))
	return &key, nil
}

func (s *distributionKeyService) GetKey(ctx context.Context, userID, keyID string) (*domain.DistributionKey, error) {
	return s.keyRepo.FindKeyForUser(ctx, userID, keyID)
}

func (s *distributionKeyService) ListKeys(ctx context.Context, userID, propertyID string) ([]domain.DistributionKey, error) {
	if _, err := s.propertyRepo.FindPropertyForUser(ctx, userID, propertyID); err != nil {
		return nil, err
	}
	return s.keyRepo.ListKeysByProperty(ctx, userID, propertyID)
}

func (s *distributionKeyService) DeleteKey(ctx context.Context, userID, keyID string) error {
	if _, err := s.keyRepo.FindKeyForUser(ctx, userID, keyID); err != nil {
		return err
	}
	if err := s.keyRepo.DeleteKey(ctx, userID, keyID); err != nil {
		s.LogError(ctx, err, "Failed to delete distribution key", slog.String("key_id", keyID))
		return fmt.Errorf("failed to delete distribution key: %w", err)
	}
	s.LogInfo(ctx, "Distribution key deleted", slog.String("key_id", keyID))
	return nil
}

func (s *distributionKeyService) AddUnitValue(ctx context.Context, keyID string, req dto.CreateKeyUnitValueRequest, userID string) (*domain.DistributionKeyUnit, error) {
	key, err := s.keyRepo.FindKeyForUser(ctx, userID, keyID)
	if err != nil {
		return nil, err
	}

	unit, err := s.propertyRepo.FindUnitForUser(ctx, userID, req.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.PropertyID != key.PropertyID {
		return nil, fmt.Errorf("%w: unit does not belong to the key's property", apperrors.ErrValidation)
	}
	if req.Value <= 0 {
		return nil, fmt.Errorf("%w: value must be positive", apperrors.ErrValidation)
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidFrom.After(*req.ValidTo) {
		return nil, fmt.Errorf("%w: validFrom is after validTo", apperrors.ErrValidation)
	}

	now := time.Now()
	entry := domain.DistributionKeyUnit{
		EntryID:   uuid.NewString(),
		KeyID:     keyID,
		UnitID:    req.UnitID,
		Value:     req.Value,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.keyRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save key value entry", slog.String("key_id", keyID))
		return nil, fmt.Errorf("failed to save key value entry: %w", err)
	}

	s.LogInfo(ctx, "Key value entry added",
		slog.String("key_id", keyID),
		slog.String("unit_id", req.UnitID))
	return &entry, nil
}

func (s *distributionKeyService) ListUnitValues(ctx context.Context, userID, keyID string) ([]domain.DistributionKeyUnit, error) {
	if _, err := s.keyRepo.FindKeyForUser(ctx, userID, keyID); err != nil {
		return nil, err
	}
	return s.keyRepo.ListEntriesByKey(ctx, keyID)
}
