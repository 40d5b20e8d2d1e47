// Package usecase defines business logic interfaces for authentication operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/romaneiohq/romaneio/internal/auth/domain"
	userDomain "github.com/romaneiohq/romaneio/internal/user/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user. Returns ErrUserAlreadyExists on duplicate email.
	Create(ctx context.Context, user *userDomain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)

	// GetByEmail retrieves a user by lowercased email. Returns ErrUserNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// TokenRepository defines persistence operations for access tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash retrieves a token by its SHA-256 hash. Returns
	// ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)

	// Revoke marks a token revoked. Idempotent: already-revoked and unknown
	// tokens are success.
	Revoke(ctx context.Context, tokenID uuid.UUID) error

	// RevokeAllForUser revokes every active token owned by the user.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// TouchLastUsed updates the last-used timestamp.
	TouchLastUsed(ctx context.Context, tokenID uuid.UUID) error

	// DeleteUnusableBefore deletes tokens expired or revoked before the cutoff.
	DeleteUnusableBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CountUnusableBefore counts tokens DeleteUnusableBefore would delete.
	CountUnusableBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RegisterInput contains the input data for user registration.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	RequestID  uuid.UUID
	RemoteAddr string
}

// LoginInput contains the input data for login.
type LoginInput struct {
	Email      string
	Password   string
	RequestID  uuid.UUID
	RemoteAddr string
}

// AuthOutput is the result of a successful register or login. PlainToken is
// the only place the token secret ever appears; it is not recoverable later.
type AuthOutput struct {
	User       *userDomain.User
	PlainToken string
	ExpiresAt  time.Time
}

// Session is a resolved bearer token: the authenticated user plus the
// identity of the token that proved it.
type Session struct {
	User    *userDomain.User
	TokenID uuid.UUID
}

// AuthUseCase defines the authentication business logic operations.
type AuthUseCase interface {
	// Register creates a new user and issues its first access token.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login verifies credentials, revokes all prior tokens for the user and
	// issues a fresh one. Unknown email and wrong password are
	// indistinguishable to the caller.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// Logout revokes the session's token. Safe to repeat.
	Logout(ctx context.Context, session *Session, requestID uuid.UUID, remoteAddr string) error

	// Authenticate resolves a token hash to a live session or fails with
	// ErrInvalidToken.
	Authenticate(ctx context.Context, tokenHash string) (*Session, error)

	// CleanupTokens deletes tokens expired or revoked before now minus
	// olderThan. With dryRun it only counts.
	CleanupTokens(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}
