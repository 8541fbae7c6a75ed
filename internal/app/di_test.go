package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/legacyvault/internal/auth/service"
	"github.com/allisson/legacyvault/internal/asset/storage"
	"github.com/allisson/legacyvault/internal/config"
	"github.com/allisson/legacyvault/internal/metrics"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LogLevel:           "error",
		DBDriver:           "invalid_driver",
		CipherAlgorithm:    "aes-gcm",
		KeyStorePath:       filepath.Join(dir, "keys", "encryption_key.key"),
		KeyWrappingEnabled: true,
		StorageDriver:      "local",
		StorageLocalDir:    filepath.Join(dir, "blobs"),
		OTPStore:           "memory",
		OTPExpiration:      5 * time.Minute,
		MailDriver:         "log",
		MetricsNamespace:   "test",
	}
}

func TestNewContainer(t *testing.T) {
	cfg := baseConfig(t)
	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainer_Logger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "invalid"} {
		t.Run(level, func(t *testing.T) {
			container := NewContainer(&config.Config{LogLevel: level})
			assert.Nil(t, container.logger)

			logger := container.Logger()
			require.NotNil(t, logger)
			assert.Same(t, logger, container.Logger())
		})
	}
}

func TestContainer_InitializationErrorsAreCached(t *testing.T) {
	container := NewContainer(baseConfig(t))

	_, err := container.DB()
	require.Error(t, err)

	_, err2 := container.DB()
	assert.Equal(t, err, err2)

	_, err = container.UserRepository()
	assert.ErrorContains(t, err, "failed to get database for user repository")

	_, err = container.AssetUseCase()
	assert.Error(t, err)
}

func TestContainer_Cipher(t *testing.T) {
	t.Run("configured algorithm", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.CipherAlgorithm = "chacha20-poly1305"
		container := NewContainer(cfg)

		cipher, err := container.Cipher()
		require.NoError(t, err)

		key, err := cipher.GenerateKey()
		require.NoError(t, err)
		sealed, err := cipher.EncryptData([]byte("payload"), key)
		require.NoError(t, err)
		opened, err := cipher.DecryptData(sealed, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), opened)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.CipherAlgorithm = "rot13"

		_, err := NewContainer(cfg).Cipher()
		assert.ErrorContains(t, err, "CIPHER_ALGORITHM")
	})
}

func TestContainer_KeyEncoder(t *testing.T) {
	cfg := baseConfig(t)
	container := NewContainer(cfg)
	ctx := context.Background()

	encoder, err := container.KeyEncoder(ctx)
	require.NoError(t, err)

	info, err := os.Stat(cfg.KeyStorePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cipher, err := container.Cipher()
	require.NoError(t, err)
	key, err := cipher.GenerateKey()
	require.NoError(t, err)

	stored, err := encoder.Encode(key)
	require.NoError(t, err)
	assert.Contains(t, stored, "wrapped:")

	// A second container over the same key file reads the wrapped key back.
	other, err := NewContainer(cfg).KeyEncoder(ctx)
	require.NoError(t, err)
	decoded, err := other.Decode(stored)
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestContainer_BlobStorage(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		blobs, err := NewContainer(baseConfig(t)).BlobStorage(context.Background())
		require.NoError(t, err)
		assert.IsType(t, &storage.LocalStorage{}, blobs)
	})

	t.Run("unsupported", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.StorageDriver = "ftp"

		_, err := NewContainer(cfg).BlobStorage(context.Background())
		assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")
	})
}

func TestContainer_AuthServices(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		_, err := NewContainer(baseConfig(t)).TokenService()
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("memory otp store", func(t *testing.T) {
		container := NewContainer(baseConfig(t))

		store, err := container.OTPStore()
		require.NoError(t, err)
		assert.IsType(t, &authService.MemoryOTPStore{}, store)
		assert.NotNil(t, container.memoryOTPStore)
	})

	t.Run("redis otp store", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.OTPStore = "redis"
		cfg.RedisAddr = "127.0.0.1:0"
		container := NewContainer(cfg)

		store, err := container.OTPStore()
		require.NoError(t, err)
		assert.IsType(t, &authService.RedisOTPStore{}, store)
		assert.NoError(t, container.Shutdown(context.Background()))
	})

	t.Run("mailers", func(t *testing.T) {
		mailer, err := NewContainer(baseConfig(t)).Mailer()
		require.NoError(t, err)
		assert.IsType(t, &authService.LogMailer{}, mailer)

		cfg := baseConfig(t)
		cfg.MailDriver = "smtp"
		mailer, err = NewContainer(cfg).Mailer()
		require.NoError(t, err)
		assert.IsType(t, &authService.SMTPMailer{}, mailer)

		cfg.MailDriver = "pigeon"
		_, err = NewContainer(cfg).Mailer()
		assert.Error(t, err)
	})
}

func TestContainer_Metrics(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		container := NewContainer(baseConfig(t))

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		assert.Nil(t, provider)

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.IsType(t, &metrics.NoOpBusinessMetrics{}, businessMetrics)

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.Nil(t, server)
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.MetricsEnabled = true
		container := NewContainer(cfg)

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NoError(t, container.Shutdown(context.Background()))
	})
}

func TestContainer_Shutdown(t *testing.T) {
	container := NewContainer(baseConfig(t))
	assert.NoError(t, container.Shutdown(context.Background()))
}
