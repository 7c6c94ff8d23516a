package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/api"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/auth"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/config"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	metricsHandle := do.MustInvoke[*MetricsHandle](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	services := &api.Services{
		Shelves:       do.MustInvoke[*service.ShelfService](i),
		Friends:       do.MustInvoke[*service.FriendService](i),
		Notifications: do.MustInvoke[*service.NotificationService](i),
		Reviews:       do.MustInvoke[*service.ReviewService](i),
		Clubs:         do.MustInvoke[*service.ClubService](i),
		Users:         do.MustInvoke[*service.UserService](i),
	}

	handler := api.NewServer(services, api.Options{
		Verifier:       do.MustInvoke[*auth.TokenVerifier](i),
		Store:          storeHandle.Store,
		Index:          indexHandle.SearchIndex,
		Hub:            sseHandle.Manager,
		RateLimiter:    limiter.KeyedRateLimiter,
		Metrics:        metricsHandle.Collector,
		MetricsHandler: metricsHandle.Handler(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
