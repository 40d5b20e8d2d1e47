// Package http provides HTTP handlers and middleware for authentication.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/romaneiohq/romaneio/internal/auth/http/dto"
	authUseCase "github.com/romaneiohq/romaneio/internal/auth/usecase"
	apperrors "github.com/romaneiohq/romaneio/internal/errors"
	"github.com/romaneiohq/romaneio/internal/httputil"
	customValidation "github.com/romaneiohq/romaneio/internal/validation"
)

// AuthHandler handles HTTP requests for registration, login, logout and the
// current-user endpoint. It coordinates with the AuthUseCase.
type AuthHandler struct {
	useCase authUseCase.AuthUseCase
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(useCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// RegisterHandler registers a new user and issues its first access token.
// POST /api/v1/register - No authentication required.
// Returns 201 Created with the user and the plain token (disclosed once).
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := authUseCase.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		RequestID:  requestIDFromGin(c),
		RemoteAddr: c.ClientIP(),
	}

	output, err := h.useCase.Register(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAuthOutputToResponse(output, "Usuário registrado com sucesso"))
}

// LoginHandler verifies credentials and issues a fresh access token. Tokens
// previously issued to the user are revoked.
// POST /api/v1/login - No authentication required.
// Returns 200 OK with the user and the plain token (disclosed once).
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		// Malformed credentials get the same generic answer as wrong ones so
		// the endpoint never confirms which field was off.
		httputil.HandleErrorGin(c, apperrors.ErrInvalidCredentials, h.logger)
		return
	}

	input := authUseCase.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RequestID:  requestIDFromGin(c),
		RemoteAddr: c.ClientIP(),
	}

	output, err := h.useCase.Login(c.Request.Context(), input)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			err = apperrors.ErrInvalidCredentials
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthOutputToResponse(output, "Login realizado com sucesso"))
}

// LogoutHandler revokes the token that authenticated this request.
// POST /api/v1/logout - Requires authentication.
// Returns 200 OK. Repeating a logout with a fresh token is also a success.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		// Should never happen if the middleware is in place.
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.useCase.Logout(c.Request.Context(), session, requestIDFromGin(c), c.ClientIP()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout realizado com sucesso"})
}

// CurrentUserHandler returns the user that owns the presented token.
// GET /api/v1/user - Requires authentication.
func (h *AuthHandler) CurrentUserHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CurrentUserResponse{User: dto.MapUserToResponse(session.User)})
}

// requestIDFromGin extracts the request id set by the requestid middleware.
// Falls back to a fresh UUIDv7 when the middleware is absent or the value is
// not a UUID, so audit entries always carry a usable correlation id.
func requestIDFromGin(c *gin.Context) uuid.UUID {
	if id, err := uuid.Parse(requestid.Get(c)); err == nil {
		return id
	}
	return uuid.Must(uuid.NewV7())
}
