// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authUseCase "github.com/romaneiohq/romaneio/internal/auth/usecase"
	userDomain "github.com/romaneiohq/romaneio/internal/user/domain"
)

// UserResponse represents a user in API responses (excludes password hash).
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *userDomain.User) UserResponse {
	return UserResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}
}

// AuthResponse contains the result of a successful register or login.
// SECURITY: The token is only returned once and cannot be recovered later.
type AuthResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// MapAuthOutputToResponse converts a use case auth output to an API response.
func MapAuthOutputToResponse(output *authUseCase.AuthOutput, message string) AuthResponse {
	return AuthResponse{
		Message:   message,
		User:      MapUserToResponse(output.User),
		Token:     output.PlainToken,
		TokenType: "Bearer",
		ExpiresAt: output.ExpiresAt,
	}
}

// MessageResponse is a simple acknowledgment payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// CurrentUserResponse wraps the authenticated user for the whoami endpoint.
type CurrentUserResponse struct {
	User UserResponse `json:"user"`
}
