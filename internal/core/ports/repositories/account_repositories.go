package repositories

import (
	"context"
	"time"

	"github.com/Rello/domus-sub002/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByNumber retrieves a specific account by its number.
	FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error)

	// ListAccounts retrieves the full chart of accounts in sort order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DisableAccount marks a non-system account as disabled.
	DisableAccount(ctx context.Context, number string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
