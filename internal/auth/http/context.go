// Package http provides HTTP handlers and middleware for authentication.
package http

import (
	"context"

	authUseCase "github.com/romaneiohq/romaneio/internal/auth/usecase"
)

// sessionKey is a context key type for storing resolved sessions.
type sessionKey struct{}

// WithSession stores a resolved session in the context.
// This is typically called by the authentication middleware after successful token resolution.
func WithSession(ctx context.Context, session *authUseCase.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSession retrieves the resolved session from the context.
// Returns (session, true) if a session is present, or (nil, false) if none was set.
// This is typically called by handlers behind the authentication middleware.
func GetSession(ctx context.Context) (*authUseCase.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*authUseCase.Session)
	return session, ok
}
