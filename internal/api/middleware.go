package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/http/response"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
)

const requestInfoKey ctxKey = "request_info"

// requestInfo collects fields filled in further down the chain.
type requestInfo struct {
	userID string
}

// instrument logs each request and records its metrics under the matched
// route pattern, so path parameters do not explode label cardinality.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		info := &requestInfo{}
		reqLogger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		ctx := context.WithValue(r.Context(), requestInfoKey, info)
		ctx = logger.NewContext(ctx, reqLogger)

		next.ServeHTTP(ww, r.WithContext(ctx))

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, route, status, elapsed)
		}

		args := []any{
			"method", r.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
		}
		if info.userID != "" {
			args = append(args, "user_id", info.userID)
		}
		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request failed", args...)
		case route == "/health" || route == "/metrics":
			reqLogger.Debug("request", args...)
		default:
			reqLogger.Info("request", args...)
		}
	})
}

// commandRateLimit applies the per-user token bucket to state-changing
// requests. Reads, streams and anonymous requests pass through.
func (s *Server) commandRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil || !isCommand(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := GetUserID(r.Context())
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if ok, retryAfter := s.rateLimiter.Reserve(userID); !ok {
			logger.FromContext(r.Context(), s.logger).Warn("rate limit exceeded",
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)
			response.TooManyRequests(w, retryAfter, s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isCommand(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
