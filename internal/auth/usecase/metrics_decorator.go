package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/romaneiohq/romaneio/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits operation count and duration with a success/error status.
func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Register records metrics for registration operations.
func (a *authUseCaseWithMetrics) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	start := time.Now()
	output, err := a.next.Register(ctx, input)
	a.record(ctx, "register", start, err)
	return output, err
}

// Login records metrics for login operations.
func (a *authUseCaseWithMetrics) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	a.record(ctx, "login", start, err)
	return output, err
}

// Logout records metrics for logout operations.
func (a *authUseCaseWithMetrics) Logout(ctx context.Context, session *Session, requestID uuid.UUID, remoteAddr string) error {
	start := time.Now()
	err := a.next.Logout(ctx, session, requestID, remoteAddr)
	a.record(ctx, "logout", start, err)
	return err
}

// Authenticate records metrics for token resolution operations.
func (a *authUseCaseWithMetrics) Authenticate(ctx context.Context, tokenHash string) (*Session, error) {
	start := time.Now()
	session, err := a.next.Authenticate(ctx, tokenHash)
	a.record(ctx, "authenticate", start, err)
	return session, err
}

// CleanupTokens records metrics for token cleanup operations.
func (a *authUseCaseWithMetrics) CleanupTokens(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	start := time.Now()
	deleted, err := a.next.CleanupTokens(ctx, olderThan, dryRun)
	a.record(ctx, "cleanup_tokens", start, err)
	return deleted, err
}
