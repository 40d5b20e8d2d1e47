package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/romaneiohq/romaneio/internal/auth/domain"
)

func newMockTokenRepo(t *testing.T) (*PostgreSQLTokenRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgreSQLTokenRepository(db), mock
}

func testToken() *authDomain.Token {
	now := time.Now().UTC()
	return &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "a3f5c8e1d2b4a6c8e0f2a4b6c8d0e2f4a6b8c0d2e4f6a8b0c2d4e6f8a0b2c4d6",
		UserID:    uuid.Must(uuid.NewV7()),
		ExpiresAt: now.Add(4 * time.Hour),
		CreatedAt: now,
	}
}

func TestPostgreSQLTokenRepository_Create(t *testing.T) {
	repo, mock := newMockTokenRepo(t)
	token := testToken()

	mock.ExpectExec(`INSERT INTO tokens`).
		WithArgs(token.ID, token.TokenHash, token.UserID, token.ExpiresAt, nil, nil, token.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), token)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTokenRepository_GetByTokenHash(t *testing.T) {
	columns := []string{"id", "token_hash", "user_id", "expires_at", "revoked_at", "last_used_at", "created_at"}

	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockTokenRepo(t)
		token := testToken()

		mock.ExpectQuery(`SELECT id, token_hash, user_id, expires_at, revoked_at, last_used_at, created_at\s+FROM tokens WHERE token_hash =`).
			WithArgs(token.TokenHash).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(token.ID, token.TokenHash, token.UserID, token.ExpiresAt, nil, nil, token.CreatedAt))

		got, err := repo.GetByTokenHash(context.Background(), token.TokenHash)
		require.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
		assert.Equal(t, token.UserID, got.UserID)
		assert.False(t, got.IsRevoked())
	})

	t.Run("RevokedTokenScansRevokedAt", func(t *testing.T) {
		repo, mock := newMockTokenRepo(t)
		token := testToken()
		revokedAt := time.Now().UTC()

		mock.ExpectQuery(`FROM tokens WHERE token_hash =`).
			WithArgs(token.TokenHash).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(token.ID, token.TokenHash, token.UserID, token.ExpiresAt, revokedAt, nil, token.CreatedAt))

		got, err := repo.GetByTokenHash(context.Background(), token.TokenHash)
		require.NoError(t, err)
		assert.True(t, got.IsRevoked())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockTokenRepo(t)

		mock.ExpectQuery(`FROM tokens WHERE token_hash =`).
			WithArgs("unknown-hash").
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.GetByTokenHash(context.Background(), "unknown-hash")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, authDomain.ErrTokenNotFound)
	})
}

func TestPostgreSQLTokenRepository_Revoke(t *testing.T) {
	t.Run("ActiveToken", func(t *testing.T) {
		repo, mock := newMockTokenRepo(t)
		tokenID := uuid.Must(uuid.NewV7())

		mock.ExpectExec(`UPDATE tokens SET revoked_at = \$1 WHERE id = \$2 AND revoked_at IS NULL`).
			WithArgs(sqlmock.AnyArg(), tokenID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Revoke(context.Background(), tokenID))
	})

	t.Run("AlreadyRevokedIsNoOpSuccess", func(t *testing.T) {
		repo, mock := newMockTokenRepo(t)
		tokenID := uuid.Must(uuid.NewV7())

		// Zero rows affected: already revoked or nonexistent. Still success.
		mock.ExpectExec(`UPDATE tokens SET revoked_at = \$1 WHERE id = \$2 AND revoked_at IS NULL`).
			WithArgs(sqlmock.AnyArg(), tokenID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Revoke(context.Background(), tokenID))
	})

	t.Run("DatabaseError", func(t *testing.T) {
		repo, mock := newMockTokenRepo(t)
		tokenID := uuid.Must(uuid.NewV7())

		mock.ExpectExec(`UPDATE tokens SET revoked_at`).
			WithArgs(sqlmock.AnyArg(), tokenID).
			WillReturnError(errors.New("pq: connection refused"))

		assert.Error(t, repo.Revoke(context.Background(), tokenID))
	})
}

func TestPostgreSQLTokenRepository_RevokeAllForUser(t *testing.T) {
	repo, mock := newMockTokenRepo(t)
	userID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(`UPDATE tokens SET revoked_at = \$1 WHERE user_id = \$2 AND revoked_at IS NULL`).
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.RevokeAllForUser(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTokenRepository_TouchLastUsed(t *testing.T) {
	repo, mock := newMockTokenRepo(t)
	tokenID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(`UPDATE tokens SET last_used_at = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), tokenID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.TouchLastUsed(context.Background(), tokenID))
}

func TestPostgreSQLTokenRepository_DeleteUnusableBefore(t *testing.T) {
	repo, mock := newMockTokenRepo(t)
	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)

	mock.ExpectExec(`DELETE FROM tokens WHERE expires_at < \$1 OR revoked_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	deleted, err := repo.DeleteUnusableBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), deleted)
}

func TestPostgreSQLTokenRepository_CountUnusableBefore(t *testing.T) {
	repo, mock := newMockTokenRepo(t)
	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tokens WHERE expires_at < \$1 OR revoked_at < \$1`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountUnusableBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
