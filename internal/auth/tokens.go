package auth

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

// TokenVerifier checks PASETO v4.local tokens issued by the identity provider.
type TokenVerifier struct {
	symmetricKey paseto.V4SymmetricKey
	issuer       string
	audience     string
}

// NewTokenVerifier creates a verifier for tokens encrypted with key and
// carrying the given issuer and audience.
func NewTokenVerifier(key []byte, issuer, audience string) (*TokenVerifier, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenVerifier{
		symmetricKey: symmetricKey,
		issuer:       issuer,
		audience:     audience,
	}, nil
}

// Verify decrypts and validates a token and returns its claims.
func (v *TokenVerifier) Verify(tokenString string) (*IdentityClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(v.audience))
	parser.AddRule(paseto.IssuedBy(v.issuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(v.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims IdentityClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	if claims.Identity().UserID == "" {
		return nil, errors.New("invalid token: missing subject")
	}

	return &claims, nil
}

// Issue creates a token for identity valid for ttl. The identity provider
// owns issuance in production; this exists for local tooling and tests.
func (v *TokenVerifier) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(v.issuer)
	token.SetSubject(identity.UserID)
	token.SetAudience(v.audience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(ttl))
	token.SetJti(uuid.NewString())

	if err := token.Set("user_id", identity.UserID); err != nil {
		return "", fmt.Errorf("set user_id claim: %w", err)
	}
	if err := token.Set("display_name", identity.DisplayName); err != nil {
		return "", fmt.Errorf("set display_name claim: %w", err)
	}

	return token.V4Encrypt(v.symmetricKey, nil), nil
}
