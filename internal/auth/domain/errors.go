package domain

import (
	"github.com/romaneiohq/romaneio/internal/errors"
)

// Authentication errors.
var (
	// ErrTokenNotFound indicates no token matches the presented value.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidToken indicates the presented token is unknown, revoked or
	// expired. Always the same error so callers learn nothing about which.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")
)
