// Package http provides the HTTP server, routing and request middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/romaneiohq/romaneio/internal/auth/http"
	"github.com/romaneiohq/romaneio/internal/config"
	"github.com/romaneiohq/romaneio/internal/database"
	"github.com/romaneiohq/romaneio/internal/metrics"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Routes are registered separately via
// SetupRouter so tests can assemble a minimal router.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterOptions holds the handlers and middleware the router is assembled from.
type RouterOptions struct {
	Config                   *config.Config
	AuthHandler              *authHTTP.AuthHandler
	AuthenticationMiddleware gin.HandlerFunc

	// MeterProvider enables the HTTP metrics middleware when non-nil.
	MeterProvider metric.MeterProvider
}

// SetupRouter builds the Gin router and registers all routes.
func (s *Server) SetupRouter(opts RouterOptions) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if opts.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(opts.MeterProvider, opts.Config.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(
		opts.Config.CORSEnabled,
		opts.Config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/api/v1")

	// Unauthenticated endpoints, per-IP rate limited.
	public := v1.Group("")
	if opts.Config.RateLimitLoginEnabled {
		public.Use(authHTTP.LoginRateLimitMiddleware(
			opts.Config.RateLimitLoginRequestsPerSec,
			opts.Config.RateLimitLoginBurst,
			s.logger,
		))
	}
	public.POST("/register", opts.AuthHandler.RegisterHandler)
	public.POST("/login", opts.AuthHandler.LoginHandler)

	// Authenticated endpoints, per-user rate limited.
	authenticated := v1.Group("")
	authenticated.Use(opts.AuthenticationMiddleware)
	if opts.Config.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(
			opts.Config.RateLimitRequestsPerSec,
			opts.Config.RateLimitBurst,
			s.logger,
		))
	}
	authenticated.POST("/logout", opts.AuthHandler.LogoutHandler)
	authenticated.GET("/user", opts.AuthHandler.CurrentUserHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking the
// database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.CheckHealth(ctx, s.db); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"components": gin.H{
				"database": "error",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"components": gin.H{
			"database": "ok",
		},
	})
}

// Start starts the HTTP server. Blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured, call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
