package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

type AllocationEngineTestSuite struct {
	suite.Suite
	mockKeyRepo *MockKeyRepository
	engine      *services.AllocationEngine
	units       []domain.Unit
	period      domain.Period
}

func (s *AllocationEngineTestSuite) SetupTest() {
	s.mockKeyRepo = new(MockKeyRepository)
	resolver := services.NewDistributionKeyResolver(s.mockKeyRepo)
	s.engine = services.NewAllocationEngine(resolver)

	s.units = []domain.Unit{
		{UnitID: "unit-a", Name: "Apartment A", LivingArea: 50},
		{UnitID: "unit-b", Name: "Apartment B", LivingArea: 30},
		{UnitID: "unit-c", Name: "Apartment C", LivingArea: 20},
	}
	s.period = domain.Period{
		From: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (s *AllocationEngineTestSuite) areaKey() domain.DistributionKey {
	return domain.DistributionKey{
		KeyID:  uuid.NewString(),
		Type:   domain.KeyArea,
		Name:   "by area",
		Config: domain.KeyConfig{Base: 100},
	}
}

func (s *AllocationEngineTestSuite) TestAreaKeyWeightsFromLivingArea() {
	key := s.areaKey()
	s.mockKeyRepo.On("FindValidForKey", mock.Anything, key.KeyID, s.period.From, s.period.To).
		Return([]domain.DistributionKeyUnit{}, nil).Once()

	weights, err := s.engine.ComputeWeights(context.Background(), key, s.period, s.units)
	s.Require().NoError(err)

	s.InDelta(0.5, weights["unit-a"], 1e-9)
	s.InDelta(0.3, weights["unit-b"], 1e-9)
	s.InDelta(0.2, weights["unit-c"], 1e-9)
}

func (s *AllocationEngineTestSuite) TestAllocateSharesSumToTotal() {
	total := decimal.RequireFromString("100.00")
	weights := map[string]float64{
		"unit-a": 1.0 / 3.0,
		"unit-b": 1.0 / 3.0,
		"unit-c": 1.0 / 3.0,
	}

	shares, err := s.engine.Allocate(s.units, weights, total)
	s.Require().NoError(err)
	s.Require().Len(shares, 3)

	s.True(shares[0].Amount.Equal(decimal.RequireFromString("33.33")))
	s.True(shares[1].Amount.Equal(decimal.RequireFromString("33.33")))
	// remainder lands on the last unit
	s.True(shares[2].Amount.Equal(decimal.RequireFromString("33.34")))

	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(share.Amount)
	}
	s.True(sum.Equal(total))
}

func (s *AllocationEngineTestSuite) TestAllocateSubCentTotalRoundsLastShare() {
	// a total with more than two decimals must still yield cent-precision
	// shares summing to the total rounded to cents
	total := decimal.RequireFromString("100.005")
	units := s.units[:2]
	weights := map[string]float64{"unit-a": 0.5, "unit-b": 0.5}

	shares, err := s.engine.Allocate(units, weights, total)
	s.Require().NoError(err)
	s.Require().Len(shares, 2)

	s.True(shares[0].Amount.Equal(decimal.RequireFromString("50.00")))
	s.True(shares[1].Amount.Equal(decimal.RequireFromString("50.01")), "last share must be a cent amount, got %s", shares[1].Amount)

	sum := shares[0].Amount.Add(shares[1].Amount)
	s.True(sum.Equal(total.Round(2)))
}

func (s *AllocationEngineTestSuite) TestKeyOutsidePeriodFailsWithConfiguration() {
	key := s.areaKey()
	key.ValidFrom = datePtr(2024, 1, 1)
	key.ValidTo = datePtr(2024, 6, 30)

	_, err := s.engine.ComputeWeights(context.Background(), key, s.period, s.units)
	s.ErrorIs(err, apperrors.ErrConfiguration)
}

func (s *AllocationEngineTestSuite) TestKeyOverlappingPeriodSucceeds() {
	key := s.areaKey()
	key.ValidFrom = datePtr(2024, 1, 1)
	key.ValidTo = datePtr(2024, 7, 15)
	// booking period 2024-06-15..2024-07-15 overlaps the key window
	period := domain.Period{
		From: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
	}
	s.mockKeyRepo.On("FindValidForKey", mock.Anything, key.KeyID, period.From, period.To).
		Return([]domain.DistributionKeyUnit{}, nil).Once()

	weights, err := s.engine.ComputeWeights(context.Background(), key, period, s.units)
	s.Require().NoError(err)
	s.Len(weights, 3)
}

func (s *AllocationEngineTestSuite) TestMissingPersonsValueNamesUnit() {
	key := domain.DistributionKey{
		KeyID: uuid.NewString(),
		Type:  domain.KeyPersons,
		Name:  "by persons",
	}
	// only two of the three units have a persons entry
	entries := []domain.DistributionKeyUnit{
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-a", Value: 2},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-b", Value: 3},
	}
	s.mockKeyRepo.On("FindValidForKey", mock.Anything, key.KeyID, s.period.From, s.period.To).
		Return(entries, nil).Once()

	_, err := s.engine.ComputeWeights(context.Background(), key, s.period, s.units)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrMissingValue)

	var missing *apperrors.MissingValueError
	s.Require().True(errors.As(err, &missing))
	s.Equal("unit-c", missing.UnitID)
	s.Equal("Apartment C", missing.UnitLabel)
}

func (s *AllocationEngineTestSuite) TestPersonsWeightsNormalizeBySum() {
	key := domain.DistributionKey{
		KeyID: uuid.NewString(),
		Type:  domain.KeyPersons,
		Name:  "by persons",
	}
	entries := []domain.DistributionKeyUnit{
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-a", Value: 2},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-b", Value: 3},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-c", Value: 5},
	}
	s.mockKeyRepo.On("FindValidForKey", mock.Anything, key.KeyID, s.period.From, s.period.To).
		Return(entries, nil).Once()

	weights, err := s.engine.ComputeWeights(context.Background(), key, s.period, s.units)
	s.Require().NoError(err)
	s.InDelta(0.2, weights["unit-a"], 1e-9)
	s.InDelta(0.3, weights["unit-b"], 1e-9)
	s.InDelta(0.5, weights["unit-c"], 1e-9)
}

func (s *AllocationEngineTestSuite) TestMixedKeyWeightsSumToOne() {
	key := domain.DistributionKey{
		KeyID: uuid.NewString(),
		Type:  domain.KeyMixed,
		Name:  "area and persons",
		Config: domain.KeyConfig{
			Parts: []domain.MixedPart{
				{Type: domain.KeyArea, Weight: 0.7},
				{Type: domain.KeyPersons, Weight: 0.3},
			},
		},
	}
	entries := []domain.DistributionKeyUnit{
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-a", Value: 1},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-b", Value: 1},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-c", Value: 2},
	}
	// the persons part resolves entries; the area part falls back to living
	// area, so the same call may happen twice
	s.mockKeyRepo.On("FindValidForKey", mock.Anything, key.KeyID, s.period.From, s.period.To).
		Return(entries, nil)

	weights, err := s.engine.ComputeWeights(context.Background(), key, s.period, s.units)
	s.Require().NoError(err)

	var sum float64
	for _, w := range weights {
		sum += w
	}
	s.InDelta(1.0, sum, 1e-9)
}

func (s *AllocationEngineTestSuite) TestResolverPicksLatestValidFrom() {
	key := domain.DistributionKey{
		KeyID: uuid.NewString(),
		Type:  domain.KeyManual,
		Name:  "manual",
	}
	// two entries overlap the period for unit-a; the later validFrom wins
	entries := []domain.DistributionKeyUnit{
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-a", Value: 10, ValidFrom: datePtr(2024, 1, 1)},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-a", Value: 40, ValidFrom: datePtr(2024, 7, 1)},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-b", Value: 30},
		{EntryID: uuid.NewString(), KeyID: key.KeyID, UnitID: "unit-c", Value: 30},
	}
	s.mockKeyRepo.On("FindValidForKey", mock.Anything, key.KeyID, s.period.From, s.period.To).
		Return(entries, nil).Once()

	weights, err := s.engine.ComputeWeights(context.Background(), key, s.period, s.units)
	s.Require().NoError(err)
	s.InDelta(0.4, weights["unit-a"], 1e-9)
}

func (s *AllocationEngineTestSuite) TestManualKeyWithoutEntriesFails() {
	key := domain.DistributionKey{
		KeyID: uuid.NewString(),
		Type:  domain.KeyManual,
		Name:  "manual",
	}
	s.mockKeyRepo.On("FindValidForKey", mock.Anything, key.KeyID, s.period.From, s.period.To).
		Return([]domain.DistributionKeyUnit{}, nil).Once()

	// manual keys have no fallback, so the first unit without an entry fails
	_, err := s.engine.ComputeWeights(context.Background(), key, s.period, s.units)
	s.ErrorIs(err, apperrors.ErrMissingValue)
}

func TestAllocationEngine(t *testing.T) {
	suite.Run(t, new(AllocationEngineTestSuite))
}

func TestParseKeyConfig_RejectsNestedMixed(t *testing.T) {
	raw := []byte(`{"parts":[{"type":"mixed","weight":1}]}`)
	_, err := domain.ParseKeyConfig(domain.KeyMixed, raw)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestParseKeyConfig_RejectsEmptyMixed(t *testing.T) {
	_, err := domain.ParseKeyConfig(domain.KeyMixed, []byte(`{}`))
	require.ErrorIs(t, err, apperrors.ErrConfiguration)
}
