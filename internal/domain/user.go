package domain

import "time"

// User is a person known to the identity provider. The server only records
// what the provider asserts.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`

	// AvatarColor is derived from ID on read and never stored.
	AvatarColor string `json:"avatar_color,omitzero"`
}

// Identity is the authenticated caller as asserted by a verified token.
type Identity struct {
	UserID      string
	DisplayName string
}
