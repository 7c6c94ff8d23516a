// Package di provides dependency injection configuration for the Shelfshare server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/auth"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/config"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/di/providers"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenVerifier)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Business services
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideFriendService)
	do.Provide(injector, providers.ProvideNotificationService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideClubService)
	do.Provide(injector, providers.ProvideUserService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.MetricsHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenVerifier](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.FriendService](injector)
	_ = do.MustInvoke[*service.NotificationService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.ClubService](injector)
	_ = do.MustInvoke[*service.UserService](injector)

	// Repopulate a fresh search index before accepting traffic
	providers.TriggerSearchReindexIfNeeded(injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
