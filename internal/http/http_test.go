package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authHTTP "github.com/romaneiohq/romaneio/internal/auth/http"
	"github.com/romaneiohq/romaneio/internal/auth/http/mocks"
	authUseCase "github.com/romaneiohq/romaneio/internal/auth/usecase"
	"github.com/romaneiohq/romaneio/internal/config"
	"github.com/romaneiohq/romaneio/internal/metrics"
	userDomain "github.com/romaneiohq/romaneio/internal/user/domain"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// createTestServer creates a test server with a discarding logger.
func createTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(nil, "localhost", 8080, logger)
}

// createMinimalRouter creates a minimal router with only health and ready endpoints.
func createMinimalRouter(server *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(server.logger))

	router.GET("/health", server.healthHandler)
	router.GET("/ready", server.readinessHandler)

	return router
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler_NotReady_NilDB(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	server.readinessHandler(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "not_ready", response["status"])

	components, ok := response["components"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", components["database"])
}

func TestCustomLoggerMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "test", response["message"])
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)

	// Should not panic - Recovery middleware catches it
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_HealthEndpoint(t *testing.T) {
	server := createTestServer()
	router := createMinimalRouter(server)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server := createTestServer()
	router := createMinimalRouter(server)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDMiddleware_HeaderPresent(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID, "X-Request-Id header should be present")

	parsedUUID, err := uuid.Parse(requestID)
	require.NoError(t, err, "X-Request-Id should be a valid UUID")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// testRouterConfig returns a config with rate limiting generous enough to not
// interfere with the routing assertions.
func testRouterConfig() *config.Config {
	return &config.Config{
		RateLimitEnabled:             true,
		RateLimitRequestsPerSec:      1000,
		RateLimitBurst:               1000,
		RateLimitLoginEnabled:        true,
		RateLimitLoginRequestsPerSec: 1000,
		RateLimitLoginBurst:          1000,
		MetricsNamespace:             "test_app",
	}
}

// setupFullRouter assembles a server with the complete route table backed by
// mocked use cases.
func setupFullRouter(t *testing.T) (*Server, *mocks.MockAuthUseCase, *mocks.MockTokenService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(nil, "localhost", 8080, logger)

	mockUseCase := &mocks.MockAuthUseCase{}
	mockTokenSvc := &mocks.MockTokenService{}

	server.SetupRouter(RouterOptions{
		Config:                   testRouterConfig(),
		AuthHandler:              authHTTP.NewAuthHandler(mockUseCase, logger),
		AuthenticationMiddleware: authHTTP.AuthenticationMiddleware(mockUseCase, mockTokenSvc, logger),
	})

	return server, mockUseCase, mockTokenSvc
}

func TestSetupRouter_RegisterRoute(t *testing.T) {
	server, mockUseCase, _ := setupFullRouter(t)

	user := &userDomain.User{
		ID:    uuid.Must(uuid.NewV7()),
		Name:  "Maria Silva",
		Email: "maria@example.com",
	}
	output := &authUseCase.AuthOutput{
		User:       user,
		PlainToken: "plain-token",
		ExpiresAt:  time.Now().UTC().Add(4 * time.Hour),
	}

	mockUseCase.On("Register", mock.Anything, mock.Anything).Return(output, nil).Once()

	body, _ := json.Marshal(map[string]string{
		"name":                  "Maria Silva",
		"email":                 "maria@example.com",
		"password":              "s3cret-password",
		"password_confirmation": "s3cret-password",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestSetupRouter_ProtectedRoutesRequireToken(t *testing.T) {
	server, _, _ := setupFullRouter(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/logout"},
		{http.MethodGet, "/api/v1/user"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestSetupRouter_CurrentUserWithToken(t *testing.T) {
	server, mockUseCase, mockTokenSvc := setupFullRouter(t)

	user := &userDomain.User{
		ID:    uuid.Must(uuid.NewV7()),
		Name:  "Maria Silva",
		Email: "maria@example.com",
	}
	session := &authUseCase.Session{User: user, TokenID: uuid.Must(uuid.NewV7())}

	mockTokenSvc.On("HashToken", "plain-token").Return("token-hash").Once()
	mockUseCase.On("Authenticate", mock.Anything, "token-hash").Return(session, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header.Set("Authorization", "Bearer plain-token")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, user.Email, response["user"]["email"])

	mockTokenSvc.AssertExpectations(t)
	mockUseCase.AssertExpectations(t)
}

func TestServer_StartWithoutRouterFails(t *testing.T) {
	server := createTestServer()

	err := server.Start(context.Background())

	assert.Error(t, err)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, logger, provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestMainServer_NoMetricsEndpoint(t *testing.T) {
	server, _, _ := setupFullRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
