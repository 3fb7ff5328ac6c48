package services_test

import (
	"context"
	"testing"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/core/services"
	"github.com/Rello/domus-sub002/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func chartFixture() []domain.Account {
	return []domain.Account{
		{Number: "2000", LabelDe: "Hausgeld", LabelEn: "Maintenance fee", Status: domain.AccountActive, IsSystem: true},
		{Number: "2001", LabelDe: "Hausgeld n.u.", ParentNumber: strPtr("2000"), Status: domain.AccountActive, IsSystem: true},
		{Number: "2004", LabelDe: "Ruecklage", ParentNumber: strPtr("2000"), Status: domain.AccountActive, IsSystem: true},
		{Number: "9000", LabelDe: "Altkonto", Status: domain.AccountDisabled},
	}
}

func TestTopAccountNumber_WalksParentChain(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockRepo.On("ListAccounts", mock.Anything).Return(chartFixture(), nil)
	svc := services.NewAccountService(mockRepo, "de")

	ctx := context.Background()
	assert.Equal(t, "2000", svc.TopAccountNumber(ctx, "2001"))
	assert.Equal(t, "2000", svc.TopAccountNumber(ctx, "2004"))
	assert.Equal(t, "2000", svc.TopAccountNumber(ctx, "2000"), "roots resolve to themselves")
	assert.Equal(t, "", svc.TopAccountNumber(ctx, "7777"), "unknown numbers resolve to empty")
}

func TestLabel_FallsBackAcrossLanguages(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockRepo.On("ListAccounts", mock.Anything).Return(chartFixture(), nil)

	ctx := context.Background()

	deSvc := services.NewAccountService(mockRepo, "de")
	assert.Equal(t, "Hausgeld", deSvc.Label(ctx, "2000"))

	enSvc := services.NewAccountService(mockRepo, "en")
	assert.Equal(t, "Maintenance fee", enSvc.Label(ctx, "2000"))
	// 2001 has no English label, the German one is used
	assert.Equal(t, "Hausgeld n.u.", enSvc.Label(ctx, "2001"))
}

func TestAssertValidAndActive(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockRepo.On("ListAccounts", mock.Anything).Return(chartFixture(), nil)
	svc := services.NewAccountService(mockRepo, "de")

	ctx := context.Background()
	assert.NoError(t, svc.AssertValid(ctx, "2001"))
	assert.ErrorIs(t, svc.AssertValid(ctx, "7777"), apperrors.ErrValidation)
	assert.NoError(t, svc.AssertActive(ctx, "2001"))
	assert.ErrorIs(t, svc.AssertActive(ctx, "9000"), apperrors.ErrConflict)
}

func TestCreateAccount_RejectsDuplicates(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	existing := chartFixture()[0]
	mockRepo.On("FindAccountByNumber", mock.Anything, "2000").Return(&existing, nil).Once()
	svc := services.NewAccountService(mockRepo, "de")

	_, err := svc.CreateAccount(context.Background(), dto.CreateAccountRequest{Number: "2000", LabelDe: "Doppelt"}, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestDisableAccount_ProtectsSystemAccounts(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	system := chartFixture()[0]
	mockRepo.On("FindAccountByNumber", mock.Anything, "2000").Return(&system, nil).Once()
	svc := services.NewAccountService(mockRepo, "de")

	err := svc.DisableAccount(context.Background(), "2000", uuid.NewString())
	require.ErrorIs(t, err, apperrors.ErrConflict)
	mockRepo.AssertNotCalled(t, "DisableAccount")
}
