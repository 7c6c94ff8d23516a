package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// identityKey is the context key for the authenticated caller.
const identityKey ctxKey = "identity"

// GetIdentity returns the authenticated caller from context.
// Returns an unauthenticated error if the request carried no valid token.
func GetIdentity(ctx context.Context) (domain.Identity, error) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, domainerrors.Unauthenticated("authentication required")
	}
	return identity, nil
}

// GetUserID returns the authenticated user ID from context.
func GetUserID(ctx context.Context) (string, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}

// setIdentity stores the caller in context.
func setIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authMiddleware verifies Bearer tokens, records the caller and stores the
// identity in context. Requests without a valid token continue anonymously;
// handlers reject them through GetIdentity.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok || s.verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		log := logger.FromContext(ctx, s.logger)

		claims, err := s.verifier.Verify(token)
		if err != nil {
			log.Debug("rejected bearer token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		identity := claims.Identity()
		if s.services != nil && s.services.Users != nil {
			if _, err := s.services.Users.Touch(ctx, identity); err != nil {
				log.Warn("failed to record user", "user_id", identity.UserID, "error", err)
			}
		}

		if rec, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
			rec.userID = identity.UserID
		}

		ctx = setIdentity(ctx, identity)
		ctx = logger.NewContext(ctx, log.With("user_id", identity.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
