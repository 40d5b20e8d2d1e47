package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{
		Name:                 "Maria Silva",
		Email:                "maria@example.com",
		Password:             "s3cret-password",
		PasswordConfirmation: "s3cret-password",
	}

	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_InvalidRequests", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*RegisterRequest)
		}{
			{"EmptyName", func(r *RegisterRequest) { r.Name = "" }},
			{"BlankName", func(r *RegisterRequest) { r.Name = "   " }},
			{"NameTooLong", func(r *RegisterRequest) { r.Name = strings.Repeat("a", 256) }},
			{"EmptyEmail", func(r *RegisterRequest) { r.Email = "" }},
			{"MalformedEmail", func(r *RegisterRequest) { r.Email = "not-an-email" }},
			{"EmptyPassword", func(r *RegisterRequest) {
				r.Password = ""
				r.PasswordConfirmation = ""
			}},
			{"ShortPassword", func(r *RegisterRequest) {
				r.Password = "short"
				r.PasswordConfirmation = "short"
			}},
			{"ConfirmationMismatch", func(r *RegisterRequest) { r.PasswordConfirmation = "different" }},
			{"MissingConfirmation", func(r *RegisterRequest) { r.PasswordConfirmation = "" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := valid
				tt.mutate(&req)
				assert.Error(t, req.Validate())
			})
		}
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := LoginRequest{Email: "maria@example.com", Password: "s3cret-password"}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_EmptyEmail", func(t *testing.T) {
		req := LoginRequest{Password: "s3cret-password"}
		assert.Error(t, req.Validate())
	})

	t.Run("Error_MalformedEmail", func(t *testing.T) {
		req := LoginRequest{Email: "not-an-email", Password: "s3cret-password"}
		assert.Error(t, req.Validate())
	})

	t.Run("Error_EmptyPassword", func(t *testing.T) {
		req := LoginRequest{Email: "maria@example.com"}
		assert.Error(t, req.Validate())
	})
}
