package services

import (
	"context"

	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/dto"
)

// AccountRegistrySvc resolves chart-of-accounts numbers to labels, activity
// state, and top-level grouping. Read-only.
type AccountRegistrySvc interface {
	// Label resolves an account number to its display label in the active
	// language, falling back to the other language, then the empty string.
	Label(ctx context.Context, number string) string

	// Exists reports whether the account number is part of the chart.
	Exists(ctx context.Context, number string) bool

	// IsActive reports whether the account may be used on new bookings.
	IsActive(ctx context.Context, number string) bool

	// TopAccountNumber walks parent references to the top-level ancestor
	// used to group report lines. Returns the number itself for roots and
	// the empty string for unknown numbers.
	TopAccountNumber(ctx context.Context, number string) string

	// AssertValid fails with ErrValidation if the account does not exist.
	AssertValid(ctx context.Context, number string) error

	// AssertActive fails with ErrConflict if the account is disabled.
	AssertActive(ctx context.Context, number string) error
}

// AccountManagerSvc defines chart-of-accounts management operations.
type AccountManagerSvc interface {
	// ListAccounts retrieves the full chart in sort order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// CreateAccount persists a new custom account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// DisableAccount marks a non-system account as disabled. System
	// accounts fail with ErrConflict.
	DisableAccount(ctx context.Context, number string, userID string) error
}

// AccountSvcFacade combines registry resolution and chart management.
type AccountSvcFacade interface {
	AccountRegistrySvc
	AccountManagerSvc
}
