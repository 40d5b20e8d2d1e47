// Package service provides authentication-related services for password hashing
// and access token generation.
package service

// PasswordService handles one-way password hashing and verification.
type PasswordService interface {
	// HashPassword derives an Argon2id hash from the plaintext password. The
	// output is a self-describing PHC string embedding algorithm, cost and salt.
	HashPassword(plainPassword string) (string, error)

	// VerifyPassword performs a constant-time comparison between a plaintext
	// password and a stored hash. Never errors outward: a malformed hash is
	// reported as a mismatch.
	VerifyPassword(plainPassword string, hashedPassword string) bool

	// DummyVerify burns roughly the same CPU as a real verification against a
	// fixed hash. Called on the unknown-email login path so its latency stays
	// close to the wrong-password path.
	DummyVerify()
}

// TokenService handles opaque access token generation and hashing.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns the plain token and its SHA-256 hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain text token using SHA-256.
	HashToken(plainToken string) string
}
