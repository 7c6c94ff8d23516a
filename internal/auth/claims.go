package auth

import (
	"time"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

// IdentityClaims represents the claims carried by an identity provider token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type IdentityClaims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity returns the caller asserted by the claims. The subject is used
// when the provider does not send a user_id claim.
func (c *IdentityClaims) Identity() domain.Identity {
	userID := c.UserID
	if userID == "" {
		userID = c.Subject
	}
	return domain.Identity{UserID: userID, DisplayName: c.DisplayName}
}
