// Package domain defines the authentication domain entities and errors.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a persisted access token. Only the SHA-256 hash of the plain
// token is stored; the plain value is disclosed to the client exactly once,
// at issuance.
type Token struct {
	ID         uuid.UUID
	TokenHash  string
	UserID     uuid.UUID
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// IsRevoked reports whether the token has been revoked. Revocation is
// terminal: there is no transition back to the active state.
func (t *Token) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired reports whether the token expired at or before now.
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
