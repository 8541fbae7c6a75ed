// Package http provides the gin router, server lifecycle and shared middleware.
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

	accessRuleHTTP "github.com/allisson/legacyvault/internal/accessrule/http"
	assetHTTP "github.com/allisson/legacyvault/internal/asset/http"
	authHTTP "github.com/allisson/legacyvault/internal/auth/http"
	authUseCase "github.com/allisson/legacyvault/internal/auth/usecase"
	"github.com/allisson/legacyvault/internal/config"
	messageHTTP "github.com/allisson/legacyvault/internal/message/http"
	"github.com/allisson/legacyvault/internal/metrics"
	userHTTP "github.com/allisson/legacyvault/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// Handlers groups the domain handlers mounted by SetupRouter.
type Handlers struct {
	Auth       *authHTTP.AuthHandler
	User       *userHTTP.UserHandler
	Asset      *assetHTTP.AssetHandler
	AccessRule *accessRuleHTTP.AccessRuleHandler
	Message    *messageHTTP.MessageHandler
}

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. db backs the readiness probe and may be nil.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       5 * time.Minute,
			WriteTimeout:      5 * time.Minute,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with every API route.
//
// Route groups:
//   - /health, /api/v1/health, /ready: unauthenticated probes
//   - /api/v1/auth: unauthenticated, rate limited per client IP
//   - /api/v1/users, /assets, /access-rules, /messages: owner scoped, bearer token
//     required when cfg.AuthRequired, rate limited per user
//
// ctx bounds the lifetime of the rate limiter sweepers.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	authUseCase authUseCase.UseCase,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadSize

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			metricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
			"/health", "/ready", "/api/v1/health",
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/api/v1")
	v1.GET("/health", s.healthHandler)

	auth := v1.Group("/auth")
	if cfg.RateLimitAuthEnabled {
		auth.Use(authHTTP.RateLimitMiddleware(
			ctx,
			cfg.RateLimitAuthRequestsPerSec,
			cfg.RateLimitAuthBurst,
			authHTTP.ByClientIP,
			s.logger,
		))
	}
	{
		auth.POST("/email-signup", handlers.Auth.EmailSignupHandler)
		auth.POST("/email-login", handlers.Auth.EmailLoginHandler)
		auth.POST("/request-otp", handlers.Auth.RequestOTPHandler)
		auth.POST("/verify-otp", handlers.Auth.VerifyOTPHandler)
		auth.POST("/verify-signup-otp", handlers.Auth.VerifySignupOTPHandler)
		auth.POST("/login", handlers.Auth.WalletLoginHandler)
		auth.POST("/connect-wallet", handlers.Auth.ConnectWalletHandler)
	}

	protected := v1.Group("")
	if cfg.AuthRequired {
		protected.Use(authHTTP.AuthenticationMiddleware(authUseCase, s.logger))
	} else {
		s.logger.Warn("AUTH_REQUIRED is disabled - owner scoped routes trust the user_id parameter")
	}
	if cfg.RateLimitEnabled {
		protected.Use(authHTTP.RateLimitMiddleware(
			ctx,
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			authHTTP.ByPrincipal,
			s.logger,
		))
	}

	users := protected.Group("/users")
	{
		users.GET("/:id/profile", handlers.User.GetProfileHandler)
		users.PUT("/:id/profile", handlers.User.UpdateProfileHandler)
	}

	assets := protected.Group("/assets")
	{
		assets.POST("/upload", handlers.Asset.UploadHandler)
		assets.GET("/list", handlers.Asset.ListHandler)
		assets.GET("/:id/download", handlers.Asset.DownloadHandler)
	}

	accessRules := protected.Group("/access-rules")
	{
		accessRules.POST("/create", handlers.AccessRule.CreateHandler)
		accessRules.GET("/asset/:id", handlers.AccessRule.ListByAssetHandler)
	}

	messages := protected.Group("/messages")
	{
		messages.POST("/schedule", handlers.Message.ScheduleHandler)
		messages.GET("/list", handlers.Message.ListHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the database; 503 when it is unreachable.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		s.notReady(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		s.notReady(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

func (s *Server) notReady(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":     "not_ready",
		"components": gin.H{"database": "error"},
	})
}
