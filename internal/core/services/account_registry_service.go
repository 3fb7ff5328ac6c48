package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/dto"
)

// maxParentDepth bounds the parent walk so a cyclic chart cannot loop.
const maxParentDepth = 16

// accountService resolves and manages the chart of accounts. Every resolve
// call works on a fresh snapshot of the chart, loaded fully into memory; the
// chart is small and rarely changes.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	lang        string
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, lang string) portssvc.AccountSvcFacade {
	if lang == "" {
		lang = "de"
	}
	return &accountService{accountRepo: accountRepo, lang: lang}
}

// snapshot loads the full chart keyed by account number.
func (s *accountService) snapshot(ctx context.Context) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart of accounts")
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	chart := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		chart[account.Number] = account
	}
	return chart, nil
}

func (s *accountService) Label(ctx context.Context, number string) string {
	chart, err := s.snapshot(ctx)
	if err != nil {
		return ""
	}
	account, ok := chart[number]
	if !ok {
		return ""
	}
	return account.Label(s.lang)
}

func (s *accountService) Exists(ctx context.Context, number string) bool {
	chart, err := s.snapshot(ctx)
	if err != nil {
		return false
	}
	_, ok := chart[number]
	return ok
}

func (s *accountService) IsActive(ctx context.Context, number string) bool {
	chart, err := s.snapshot(ctx)
	if err != nil {
		return false
	}
	account, ok := chart[number]
	return ok && account.IsActive()
}

func (s *accountService) TopAccountNumber(ctx context.Context, number string) string {
	chart, err := s.snapshot(ctx)
	if err != nil {
		return ""
	}
	return topAccountIn(chart, number)
}

// topAccountIn walks parent references to the root. Unknown numbers resolve
// to the empty string; a broken parent reference stops at the last known
// account.
func topAccountIn(chart map[string]domain.Account, number string) string {
	account, ok := chart[number]
	if !ok {
		return ""
	}
	for depth := 0; depth < maxParentDepth; depth++ {
		if account.ParentNumber == nil {
			return account.Number
		}
		parent, ok := chart[*account.ParentNumber]
		if !ok {
			return account.Number
		}
		account = parent
	}
	return account.Number
}

func (s *accountService) AssertValid(ctx context.Context, number string) error {
	if !s.Exists(ctx, number) {
		return fmt.Errorf("%w: unknown account %q", apperrors.ErrValidation, number)
	}
	return nil
}

func (s *accountService) AssertActive(ctx context.Context, number string) error {
	chart, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	account, ok := chart[number]
	if !ok {
		return fmt.Errorf("%w: unknown account %q", apperrors.ErrValidation, number)
	}
	if !account.IsActive() {
		return fmt.Errorf("%w: account %q is disabled", apperrors.ErrConflict, number)
	}
	return nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	existing, err := s.accountRepo.FindAccountByNumber(ctx, req.Number)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for duplicate account", slog.String("number", req.Number))
		return nil, fmt.Errorf("failed to check for duplicate account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account %q already exists", apperrors.ErrDuplicate, req.Number)
	}

	if req.ParentNumber != nil {
		if err := s.AssertValid(ctx, *req.ParentNumber); err != nil {
			return nil, fmt.Errorf("parent account: %w", err)
		}
	}
	if req.LabelDe == "" && req.LabelEn == "" {
		return nil, fmt.Errorf("%w: account requires a label", apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.Account{
		Number:       req.Number,
		LabelDe:      req.LabelDe,
		LabelEn:      req.LabelEn,
		ParentNumber: req.ParentNumber,
		Status:       domain.AccountActive,
		IsSystem:     false,
		SortOrder:    req.SortOrder,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("number", req.Number))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("number", account.Number))
	return &account, nil
}

func (s *accountService) DisableAccount(ctx context.Context, number string, userID string) error {
	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: system account %q cannot be disabled", apperrors.ErrConflict, number)
	}
	if !account.IsActive() {
		return fmt.Errorf("%w: account %q is already disabled", apperrors.ErrConflict, number)
	}

	if err := s.accountRepo.DisableAccount(ctx, number, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to disable account", slog.String("number", number))
		return fmt.Errorf("failed to disable account: %w", err)
	}

	s.LogInfo(ctx, "Account disabled", slog.String("number", number))
	return nil
}
