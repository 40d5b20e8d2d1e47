package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/romaneiohq/romaneio/internal/errors"
)

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher    *pwdhash.PasswordHasher
	dummyHash string
}

// HashPassword hashes a plaintext password using Argon2id.
func (s *passwordService) HashPassword(plainPassword string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// VerifyPassword performs a constant-time comparison between a plaintext
// password and its hash. Returns false on any error, including a malformed
// stored hash.
func (s *passwordService) VerifyPassword(plainPassword string, hashedPassword string) bool {
	ok, err := s.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}

// DummyVerify runs a verification against a fixed throwaway hash so the
// unknown-email login path costs about the same as a wrong-password one.
func (s *passwordService) DummyVerify() {
	_, _ = s.hasher.Verify([]byte("dummy password"), s.dummyHash)
}

// NewPasswordService creates a PasswordService using Argon2id with the
// interactive policy, suitable for user-facing login latency.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	dummyHash, err := hasher.Hash([]byte("dummy password value"))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash dummy password")
	}

	return &passwordService{
		hasher:    hasher,
		dummyHash: dummyHash,
	}, nil
}
