package services

import (
	portsrepo "github.com/Rello/domus-sub002/internal/core/ports/repositories"
	portssvc "github.com/Rello/domus-sub002/internal/core/ports/services"
	"github.com/Rello/domus-sub002/internal/platform/cache"
	"github.com/Rello/domus-sub002/internal/platform/config"
	"github.com/Rello/domus-sub002/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, reportCache *cache.ReportCache, analytics *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize the account registry first since other services depend on it
	container.Account = NewAccountService(repos.AccountRepo, cfg.Language)

	// The allocation engine resolves per-unit values through the key repo
	resolver := NewDistributionKeyResolver(repos.KeyRepo)
	engine := NewAllocationEngine(resolver)
	evaluator := NewRuleEvaluator()

	container.Property = NewPropertyService(repos.PropertyRepo)
	container.DistributionKey = NewDistributionKeyService(repos.KeyRepo, repos.PropertyRepo)
	container.Booking = NewBookingService(repos.BookingRepo, repos.KeyRepo, repos.PropertyRepo, container.Account, reportCache)
	container.Distribution = NewDistributionService(repos.BookingRepo, repos.KeyRepo, repos.PropertyRepo, container.Account, engine, reportCache, analytics)
	container.Statistics = NewStatisticsService(repos.BookingRepo, repos.PropertyRepo, evaluator, reportCache, cfg.Language)

	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
