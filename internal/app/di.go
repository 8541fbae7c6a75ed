// Package app provides the dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	accessRuleHTTP "github.com/allisson/legacyvault/internal/accessrule/http"
	accessRuleUseCase "github.com/allisson/legacyvault/internal/accessrule/usecase"
	"github.com/allisson/legacyvault/internal/anchor"
	assetHTTP "github.com/allisson/legacyvault/internal/asset/http"
	"github.com/allisson/legacyvault/internal/asset/storage"
	assetUseCase "github.com/allisson/legacyvault/internal/asset/usecase"
	authHTTP "github.com/allisson/legacyvault/internal/auth/http"
	authService "github.com/allisson/legacyvault/internal/auth/service"
	authUseCase "github.com/allisson/legacyvault/internal/auth/usecase"
	"github.com/allisson/legacyvault/internal/config"
	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
	cryptoService "github.com/allisson/legacyvault/internal/crypto/service"
	"github.com/allisson/legacyvault/internal/database"
	"github.com/allisson/legacyvault/internal/http"
	"github.com/allisson/legacyvault/internal/keystore"
	messageHTTP "github.com/allisson/legacyvault/internal/message/http"
	messageUseCase "github.com/allisson/legacyvault/internal/message/usecase"
	"github.com/allisson/legacyvault/internal/metrics"
	outboxUseCase "github.com/allisson/legacyvault/internal/outbox/usecase"
	userHTTP "github.com/allisson/legacyvault/internal/user/http"
	userUseCase "github.com/allisson/legacyvault/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access and cached; an initialization error is
// cached too and returned by every later call.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	redisClient     *redis.Client

	// Crypto
	cipher     *cryptoService.ChunkedCipher
	kmsKeeper  cryptoService.KMSKeeper
	keyStore   *keystore.Store
	keyEncoder *keystore.KeyEncoder
	anchorer   *anchor.Stub

	// Repositories
	userRepo       userUseCase.UserRepository
	outboxRepo     outboxUseCase.OutboxEventRepository
	assetRepo      assetUseCase.AssetRepository
	accessRuleRepo accessRuleUseCase.AccessRuleRepository
	messageRepo    messageUseCase.MessageRepository
	blobStorage    storage.BlobStorage

	// Auth services
	tokenService    authService.TokenService
	passwordService authService.PasswordService
	otpStore        authService.OTPStore
	memoryOTPStore  *authService.MemoryOTPStore
	mailer          authService.Mailer

	// Use cases
	userUseCase       userUseCase.UseCase
	authUseCase       authUseCase.UseCase
	assetUseCase      assetUseCase.UseCase
	accessRuleUseCase accessRuleUseCase.UseCase
	messageUseCase    messageUseCase.UseCase
	outboxUseCase     outboxUseCase.UseCase

	// Handlers
	userHandler       *userHTTP.UserHandler
	authHandler       *authHTTP.AuthHandler
	assetHandler      *assetHTTP.AssetHandler
	accessRuleHandler *accessRuleHTTP.AccessRuleHandler
	messageHandler    *messageHTTP.MessageHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	redisClientInit       sync.Once
	cipherInit            sync.Once
	kmsKeeperInit         sync.Once
	keyStoreInit          sync.Once
	keyEncoderInit        sync.Once
	anchorerInit          sync.Once
	userRepoInit          sync.Once
	outboxRepoInit        sync.Once
	assetRepoInit         sync.Once
	accessRuleRepoInit    sync.Once
	messageRepoInit       sync.Once
	blobStorageInit       sync.Once
	tokenServiceInit      sync.Once
	passwordServiceInit   sync.Once
	otpStoreInit          sync.Once
	mailerInit            sync.Once
	userUseCaseInit       sync.Once
	authUseCaseInit       sync.Once
	assetUseCaseInit      sync.Once
	accessRuleUseCaseInit sync.Once
	messageUseCaseInit    sync.Once
	outboxUseCaseInit     sync.Once
	userHandlerInit       sync.Once
	authHandlerInit       sync.Once
	assetHandlerInit      sync.Once
	accessRuleHandlerInit sync.Once
	messageHandlerInit    sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once

	mu         sync.Mutex
	initErrors map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// lazy runs init once and returns the error it produced on this and every later call.
func (c *Container) lazy(once *sync.Once, name string, init func() error) error {
	once.Do(func() {
		if err := init(); err != nil {
			c.mu.Lock()
			c.initErrors[name] = err
			c.mu.Unlock()
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// byDriver picks the repository implementation matching DB_DRIVER.
func byDriver[T any](c *Container, name string, postgres, mysql func(*sql.DB) T) (T, error) {
	var zero T

	db, err := c.DB()
	if err != nil {
		return zero, fmt.Errorf("failed to get database for %s: %w", name, err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return postgres(db), nil
	case "mysql":
		return mysql(db), nil
	default:
		return zero, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger writing to stdout at LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection pool.
func (c *Container) DB() (*sql.DB, error) {
	err := c.lazy(&c.dbInit, "db", func() (err error) {
		c.db, err = c.initDB()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	err := c.lazy(&c.txManagerInit, "txManager", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		c.txManager = database.NewTxManager(db)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the Prometheus backed meter provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	err := c.lazy(&c.metricsProviderInit, "metricsProvider", func() (err error) {
		if !c.config.MetricsEnabled {
			return nil
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the operation metrics recorder; a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	err := c.lazy(&c.businessMetricsInit, "businessMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return nil
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// RedisClient returns the redis client used by the redis OTP store.
func (c *Container) RedisClient() *redis.Client {
	c.redisClientInit.Do(func() {
		c.redisClient = redis.NewClient(&redis.Options{
			Addr:     c.config.RedisAddr,
			Password: c.config.RedisPassword,
			DB:       c.config.RedisDB,
		})
	})
	return c.redisClient
}

// HTTPServer returns the API server with every route mounted.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	err := c.lazy(&c.httpServerInit, "httpServer", func() (err error) {
		c.httpServer, err = c.initHTTPServer(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	err := c.lazy(&c.metricsServerInit, "metricsServer", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			return nil
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// StartBackgroundTasks starts the sweepers of initialized in-process stores until ctx is done.
func (c *Container) StartBackgroundTasks(ctx context.Context) {
	if c.memoryOTPStore != nil {
		go c.memoryOTPStore.Cleanup(ctx, max(c.config.OTPExpiration, time.Minute))
	}
}

// Shutdown releases every initialized resource.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if c.kmsKeeper != nil {
		if err := c.kmsKeeper.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kms keeper close: %w", err))
		}
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authUC, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for http server: %w", err)
	}

	handlers, err := c.handlers()
	if err != nil {
		return nil, err
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(ctx, c.config, handlers, authUC, provider)
	return server, nil
}

func (c *Container) handlers() (http.Handlers, error) {
	var (
		h   http.Handlers
		err error
	)

	if h.Auth, err = c.AuthHandler(); err != nil {
		return h, fmt.Errorf("failed to get auth handler: %w", err)
	}
	if h.User, err = c.UserHandler(); err != nil {
		return h, fmt.Errorf("failed to get user handler: %w", err)
	}
	if h.Asset, err = c.AssetHandler(); err != nil {
		return h, fmt.Errorf("failed to get asset handler: %w", err)
	}
	if h.AccessRule, err = c.AccessRuleHandler(); err != nil {
		return h, fmt.Errorf("failed to get access rule handler: %w", err)
	}
	if h.Message, err = c.MessageHandler(); err != nil {
		return h, fmt.Errorf("failed to get message handler: %w", err)
	}
	return h, nil
}

// algorithm returns the configured cipher for new ciphertext.
func (c *Container) algorithm() (cryptoDomain.Algorithm, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return "", fmt.Errorf("invalid CIPHER_ALGORITHM %q: %w", c.config.CipherAlgorithm, err)
	}
	return alg, nil
}
