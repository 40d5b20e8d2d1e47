// Package repository provides data persistence implementations for access tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/romaneiohq/romaneio/internal/auth/domain"
	"github.com/romaneiohq/romaneio/internal/database"
	apperrors "github.com/romaneiohq/romaneio/internal/errors"
)

// PostgreSQLTokenRepository implements Token persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL Token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a new Token.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (id, token_hash, user_id, expires_at, revoked_at, last_used_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.UserID,
		token.ExpiresAt,
		token.RevokedAt,
		token.LastUsedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a Token by its SHA-256 hash. Returns
// ErrTokenNotFound if no token matches.
func (p *PostgreSQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, user_id, expires_at, revoked_at, last_used_at, created_at
			  FROM tokens WHERE token_hash = $1`

	var token authDomain.Token

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.UserID,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.LastUsedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}

	return &token, nil
}

// Revoke marks a token as revoked. Idempotent: revoking an already-revoked or
// nonexistent token succeeds without touching any row.
func (p *PostgreSQLTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`

	_, err := querier.ExecContext(ctx, query, time.Now().UTC(), tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// RevokeAllForUser revokes every active token owned by the user. Used at
// login to enforce the single-active-session policy.
func (p *PostgreSQLTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`

	_, err := querier.ExecContext(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke user tokens")
	}
	return nil
}

// TouchLastUsed updates the last-used timestamp. Best-effort: callers log
// failures and carry on.
func (p *PostgreSQLTokenRepository) TouchLastUsed(ctx context.Context, tokenID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET last_used_at = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, time.Now().UTC(), tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch token")
	}
	return nil
}

// DeleteUnusableBefore deletes tokens that expired or were revoked before the
// cutoff. Returns the number of rows deleted.
func (p *PostgreSQLTokenRepository) DeleteUnusableBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM tokens WHERE expires_at < $1 OR revoked_at < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete tokens")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted tokens")
	}
	return deleted, nil
}

// CountUnusableBefore counts tokens that DeleteUnusableBefore would delete.
// Used by the dry-run mode of the cleanup command.
func (p *PostgreSQLTokenRepository) CountUnusableBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM tokens WHERE expires_at < $1 OR revoked_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count tokens")
	}
	return count, nil
}
