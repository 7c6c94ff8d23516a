package providers

import (
	"github.com/samber/do/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/auth"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/config"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/ratelimit"
)

// AuthKey wraps the token key bytes.
type AuthKey []byte

// ProvideAuthKey returns the configured identity provider key, or a key
// generated under the data path when none is configured.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenKeyHex != "" {
		key, err := auth.ParseKeyHex(cfg.Auth.TokenKeyHex)
		if err != nil {
			return nil, err
		}
		log.Info("Token key loaded from configuration", "issuer", cfg.Auth.Issuer)
		return AuthKey(key), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Store.DataPath)
	if err != nil {
		return nil, err
	}
	log.Warn("Using local development token key", "path", cfg.Store.DataPath)

	return AuthKey(key), nil
}

// ProvideTokenVerifier provides the PASETO token verifier.
func ProvideTokenVerifier(i do.Injector) (*auth.TokenVerifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenVerifier([]byte(key), cfg.Auth.Issuer, cfg.Auth.Audience)
}

// RateLimiterHandle wraps the per-user command limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-user command rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}
