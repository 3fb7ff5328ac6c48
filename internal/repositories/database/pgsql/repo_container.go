package pgsql

import (
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	bookingRepo := newPgxBookingRepository(dbPool)
	keyRepo := newPgxDistributionKeyRepository(dbPool)
	propertyRepo := newPgxPropertyRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:  accountRepo,
		BookingRepo:  bookingRepo,
		KeyRepo:      keyRepo,
		PropertyRepo: propertyRepo,
		UserRepo:     userRepo,
	}
}
