// Package api serves shelves, the friend graph, reviews and notifications
// over HTTP, with live snapshots streamed as Server-Sent Events.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/auth"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/ratelimit"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/search"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/service"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/sse"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/store"
)

// Services groups the business services used by the API server.
type Services struct {
	Shelves       *service.ShelfService
	Friends       *service.FriendService
	Notifications *service.NotificationService
	Reviews       *service.ReviewService
	Clubs         *service.ClubService
	Users         *service.UserService
}

// HTTPRecorder records per-route request metrics.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, d time.Duration)
}

// Options carries the infrastructure the server depends on.
type Options struct {
	Verifier       *auth.TokenVerifier
	Store          *store.Store
	Index          *search.SearchIndex
	Hub            *sse.Manager
	RateLimiter    *ratelimit.KeyedRateLimiter // Per-user limit on commands; nil disables
	Metrics        HTTPRecorder                // nil disables request metrics
	MetricsHandler http.Handler                // Served at /metrics when set
	AllowedOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    *Services
	verifier    *auth.TokenVerifier
	store       *store.Store
	index       *search.SearchIndex
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	rateLimiter *ratelimit.KeyedRateLimiter
	metrics     HTTPRecorder
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		services:    services,
		verifier:    opts.Verifier,
		store:       opts.Store,
		index:       opts.Index,
		sseManager:  opts.Hub,
		sseHandler:  sse.NewHandler(logger),
		rateLimiter: opts.RateLimiter,
		metrics:     opts.Metrics,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware(opts.AllowedOrigins)

	humaConfig := huma.DefaultConfig("Shelfshare API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerShelfRoutes()
	s.registerFriendRoutes()
	s.registerUserRoutes()
	s.registerReviewRoutes()
	s.registerClubRoutes()
	s.registerNotificationRoutes()
	s.registerStreamRoutes()

	if opts.MetricsHandler != nil {
		s.router.Handle("/metrics", opts.MetricsHandler)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.instrument)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(s.authMiddleware)
	s.router.Use(s.commandRateLimit)
}
