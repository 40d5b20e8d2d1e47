// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/romaneiohq/romaneio/internal/auditlog/domain"
	auditUseCase "github.com/romaneiohq/romaneio/internal/auditlog/usecase"
	authDomain "github.com/romaneiohq/romaneio/internal/auth/domain"
	authService "github.com/romaneiohq/romaneio/internal/auth/service"
	"github.com/romaneiohq/romaneio/internal/config"
	"github.com/romaneiohq/romaneio/internal/database"
	apperrors "github.com/romaneiohq/romaneio/internal/errors"
	userDomain "github.com/romaneiohq/romaneio/internal/user/domain"
	appValidation "github.com/romaneiohq/romaneio/internal/validation"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	config          *config.Config
	txManager       database.TxManager
	userRepo        UserRepository
	tokenRepo       TokenRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	auditLog        auditUseCase.UseCase
	logger          *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	userRepo UserRepository,
	tokenRepo TokenRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
	auditLog auditUseCase.UseCase,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		config:          cfg,
		txManager:       txManager,
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		auditLog:        auditLog,
		logger:          logger,
	}
}

// validateRegisterInput enforces the registration field constraints:
// non-empty name up to 255 chars, syntactically valid email up to 255 chars,
// password of at least 8 chars.
func (a *authUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// validateLoginInput enforces presence and shape of login credentials.
func (a *authUseCase) validateLoginInput(input LoginInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new user and issues its first access token.
//
// The user insert and the audit entry share a transaction; the unique index
// on email is the arbiter for concurrent registrations with the same address.
func (a *authUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := a.validateRegisterInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := a.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     strings.TrimSpace(input.Name),
		Email:    normalizeEmail(input.Email),
		Password: hashedPassword,
	}

	var output *AuthOutput
	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.userRepo.Create(ctx, user); err != nil {
			return err
		}

		output, err = a.issueToken(ctx, user)
		if err != nil {
			return err
		}

		return a.auditLog.Record(ctx, input.RequestID, &user.ID, auditDomain.EventRegister, input.RemoteAddr, nil)
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// Login verifies credentials and issues a fresh token, revoking all tokens
// previously issued to the user (single active session per login).
//
// Unknown email and wrong password both return ErrInvalidCredentials. On the
// unknown-email path a dummy hash verification keeps latency close to the
// wrong-password path so account existence does not leak through timing.
func (a *authUseCase) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	if err := a.validateLoginInput(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)

	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			a.passwordService.DummyVerify()
			a.recordLoginFailed(ctx, input, nil)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.passwordService.VerifyPassword(input.Password, user.Password) {
		a.recordLoginFailed(ctx, input, &user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	var output *AuthOutput
	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			return err
		}

		output, err = a.issueToken(ctx, user)
		if err != nil {
			return err
		}

		return a.auditLog.Record(ctx, input.RequestID, &user.ID, auditDomain.EventLogin, input.RemoteAddr, nil)
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// Logout revokes the session's token. Revocation is idempotent at the
// repository, so repeating a logout is a no-op success.
func (a *authUseCase) Logout(ctx context.Context, session *Session, requestID uuid.UUID, remoteAddr string) error {
	if session == nil {
		return apperrors.ErrUnauthorized
	}

	if err := a.tokenRepo.Revoke(ctx, session.TokenID); err != nil {
		return err
	}

	if err := a.auditLog.Record(ctx, requestID, &session.User.ID, auditDomain.EventLogout, remoteAddr, nil); err != nil {
		// The token is already revoked; don't undo a successful logout.
		a.logger.Warn("failed to record logout audit log", slog.Any("error", err))
	}

	return nil
}

// Authenticate resolves a token hash to a live session.
//
// Unknown, revoked and expired tokens all return ErrInvalidToken so callers
// learn nothing about which check failed. The lookup compares SHA-256 hashes,
// the same derivation used at issuance.
func (a *authUseCase) Authenticate(ctx context.Context, tokenHash string) (*Session, error) {
	token, err := a.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	if token.IsRevoked() || token.IsExpired(time.Now().UTC()) {
		return nil, authDomain.ErrInvalidToken
	}

	user, err := a.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		// Shouldn't happen with the FK in place, but treat as invalid rather
		// than leaking a not-found.
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	// Best-effort: a failed touch never rejects a valid session.
	if err := a.tokenRepo.TouchLastUsed(ctx, token.ID); err != nil {
		a.logger.Warn("failed to touch token last_used_at",
			slog.String("token_id", token.ID.String()),
			slog.Any("error", err),
		)
	}

	return &Session{User: user, TokenID: token.ID}, nil
}

// CleanupTokens deletes tokens that expired or were revoked before now minus
// olderThan. With dryRun it only reports how many would be deleted.
func (a *authUseCase) CleanupTokens(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	if dryRun {
		return a.tokenRepo.CountUnusableBefore(ctx, cutoff)
	}
	return a.tokenRepo.DeleteUnusableBefore(ctx, cutoff)
}

// issueToken mints a new access token for the user and persists its hash.
func (a *authUseCase) issueToken(ctx context.Context, user *userDomain.User) (*AuthOutput, error) {
	plainToken, tokenHash, err := a.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(a.config.AuthTokenExpiration),
		CreatedAt: time.Now().UTC(),
	}

	if err := a.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &AuthOutput{
		User:       user,
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// recordLoginFailed writes a login_failed audit entry, best-effort.
func (a *authUseCase) recordLoginFailed(ctx context.Context, input LoginInput, userID *uuid.UUID) {
	metadata := map[string]any{"email": normalizeEmail(input.Email)}
	if err := a.auditLog.Record(ctx, input.RequestID, userID, auditDomain.EventLoginFailed, input.RemoteAddr, metadata); err != nil {
		a.logger.Warn("failed to record login_failed audit log", slog.Any("error", err))
	}
}

// normalizeEmail lowercases and trims an email so lookups and the unique
// index agree on case-insensitive uniqueness.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
