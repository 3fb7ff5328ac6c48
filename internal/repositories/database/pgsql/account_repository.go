package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	"github.com/Rello/domus-sub002/internal/models"
	"github.com/Rello/domus-sub002/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `number, label_de, label_en, parent_number, status, is_system, sort_order, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	var parentNumber sql.NullString

	err := row.Scan(
		&m.Number,
		&m.LabelDe,
		&m.LabelEn,
		&parentNumber,
		&m.Status,
		&m.IsSystem,
		&m.SortOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Account{}, err
	}
	if parentNumber.Valid {
		m.ParentNumber = &parentNumber.String
	}
	return m, nil
}

// SaveAccount inserts a new chart-of-accounts entry.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.Number,
		modelAcc.LabelDe,
		modelAcc.LabelEn,
		modelAcc.ParentNumber,
		modelAcc.Status,
		modelAcc.IsSystem,
		modelAcc.SortOrder,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: account with number %s already exists", apperrors.ErrDuplicate, modelAcc.Number)
			}
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.Number, err)
	}
	return nil
}

// FindAccountByNumber retrieves an account by its chart-of-accounts number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE number = $1;
	`
	modelAcc, err := scanAccount(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by number "+number, err)
	}

	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}

// ListAccounts retrieves the full chart of accounts in sort order, with the
// account number as a stable tie-breaker.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY sort_order, number;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	modelAccounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		modelAccounts = append(modelAccounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

// DisableAccount marks an account as disabled. System accounts are guarded at
// the service layer; the repository only refuses unknown numbers.
func (r *PgxAccountRepository) DisableAccount(ctx context.Context, number string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE number = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, number, models.AccountDisabled, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to disable account "+number, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
