package services

import (
	"context"
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

// propertyService manages properties and their units.
type propertyService struct {
	BaseService
	propertyRepo portsrepo.PropertyRepositoryFacade
}

var _ portssvc.PropertySvcFacade = (*propertyService)(nil)

// NewPropertyService creates a new property service.
func NewPropertyService(propertyRepo portsrepo.PropertyRepositoryFacade) portssvc.PropertySvcFacade {
	return &propertyService{propertyRepo: propertyRepo}
}

func (s *propertyService) CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, userID string) (*domain.Property, error) {
	now := time.Now()
	property := domain.Property{
		PropertyID: uuid.NewString(),
		UserID:     userID,
		Name:       req.Name,
		Address:    req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.propertyRepo.SaveProperty(ctx, property); err != nil {
		s.LogError(ctx, err, "Failed to save property")
		return nil, fmt.Errorf("failed to save property: %w", err)
	}

	s.LogInfo(ctx, "Property created", slog.String("property_id", property.PropertyID))
	return &property, nil
}

func (s *propertyService) GetProperty(ctx context.Context, userID, propertyID string) (*domain.Property, error) {
	return s.propertyRepo.FindPropertyForUser(ctx, userID, propertyID)
}

func (s *propertyService) ListProperties(ctx context.Context, userID string) ([]domain.Property, error) {
	return s.propertyRepo.ListPropertiesByUser(ctx, userID)
}

func (s *propertyService) CreateUnit(ctx context.Context, propertyID string, req dto.CreateUnitRequest, userID string) (*domain.Unit, error) {
	if _, err := s.propertyRepo.FindPropertyForUser(ctx, userID, propertyID); err != nil {
		return nil, err
	}
	if req.LivingArea < 0 {
		return nil, fmt.Errorf("%w: living area must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	unit := domain.Unit{
		UnitID:     uuid.NewString(),
		UserID:     userID,
		PropertyID: propertyID,
		Name:       req.Name,
		LivingArea: req.LivingArea,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.propertyRepo.SaveUnit(ctx, unit); err != nil {
		s.LogError(ctx, err, "Failed to save unit")
		return nil, fmt.Errorf("failed to save unit: %w", err)
	}

	s.LogInfo(ctx, "Unit created",
		slog.String("unit_id", unit.UnitID),
		slog.String("property_id", propertyID))
	return &unit, nil
}

func (s *propertyService) GetUnit(ctx context.Context, userID, unitID string) (*domain.Unit, error) {
	return s.propertyRepo.FindUnitForUser(ctx, userID, unitID)
}

func (s *propertyService) ListUnits(ctx context.Context, userID, propertyID string) ([]domain.Unit, error) {
	if _, err := s.propertyRepo.FindPropertyForUser(ctx, userID, propertyID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListUnitsByProperty(ctx, userID, propertyID)
}
