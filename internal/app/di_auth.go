package app

import (
	"errors"
	"fmt"

	authHTTP "github.com/allisson/legacyvault/internal/auth/http"
	authService "github.com/allisson/legacyvault/internal/auth/service"
	authUseCase "github.com/allisson/legacyvault/internal/auth/usecase"
)

// ErrMissingJWTSecret is returned when JWT_SECRET_KEY is empty.
var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY is required")

// TokenService returns the JWT issuer and verifier.
func (c *Container) TokenService() (authService.TokenService, error) {
	err := c.lazy(&c.tokenServiceInit, "tokenService", func() error {
		if c.config.JWTSecretKey == "" {
			return ErrMissingJWTSecret
		}
		c.tokenService = authService.NewJWTTokenService([]byte(c.config.JWTSecretKey), c.config.JWTExpiration)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.tokenService, nil
}

// PasswordService returns the password hasher.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	err := c.lazy(&c.passwordServiceInit, "passwordService", func() (err error) {
		c.passwordService, err = authService.NewPasswordService()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.passwordService, nil
}

// OTPStore returns the pending code store selected by OTP_STORE.
func (c *Container) OTPStore() (authService.OTPStore, error) {
	err := c.lazy(&c.otpStoreInit, "otpStore", func() error {
		switch c.config.OTPStore {
		case "memory":
			c.memoryOTPStore = authService.NewMemoryOTPStore()
			c.otpStore = c.memoryOTPStore
		case "redis":
			c.otpStore = authService.NewRedisOTPStore(c.RedisClient())
		default:
			return fmt.Errorf("unsupported OTP_STORE: %s", c.config.OTPStore)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.otpStore, nil
}

// Mailer returns the OTP mailer selected by MAIL_DRIVER.
func (c *Container) Mailer() (authService.Mailer, error) {
	err := c.lazy(&c.mailerInit, "mailer", func() error {
		switch c.config.MailDriver {
		case "log":
			c.Logger().Warn("MAIL_DRIVER=log: OTP mails are not delivered")
			c.mailer = authService.NewLogMailer(c.Logger())
		case "smtp":
			c.mailer = authService.NewSMTPMailer(authService.SMTPConfig{
				Host:     c.config.SMTPHost,
				Port:     c.config.SMTPPort,
				Username: c.config.SMTPUsername,
				Password: c.config.SMTPPassword,
				From:     c.config.SMTPFrom,
			}, c.Logger())
		default:
			return fmt.Errorf("unsupported MAIL_DRIVER: %s", c.config.MailDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.mailer, nil
}

// AuthUseCase returns the authentication use case.
func (c *Container) AuthUseCase() (authUseCase.UseCase, error) {
	err := c.lazy(&c.authUseCaseInit, "authUseCase", func() (err error) {
		c.authUseCase, err = c.initAuthUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.authUseCase, nil
}

// AuthHandler returns the /auth HTTP handler.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	err := c.lazy(&c.authHandlerInit, "authHandler", func() error {
		useCase, err := c.AuthUseCase()
		if err != nil {
			return fmt.Errorf("failed to get auth use case for auth handler: %w", err)
		}
		c.authHandler = authHTTP.NewAuthHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.authHandler, nil
}

func (c *Container) initAuthUseCase() (authUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for auth use case: %w", err)
	}

	tokens, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for auth use case: %w", err)
	}

	passwords, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for auth use case: %w", err)
	}

	otpStore, err := c.OTPStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get otp store for auth use case: %w", err)
	}

	mailer, err := c.Mailer()
	if err != nil {
		return nil, fmt.Errorf("failed to get mailer for auth use case: %w", err)
	}

	baseUseCase := authUseCase.NewAuthUseCase(
		authUseCase.Config{OTPExpiration: c.config.OTPExpiration},
		txManager,
		users,
		authUseCase.Services{
			Tokens:    tokens,
			Passwords: passwords,
			OTPs:      authService.NewOTPGenerator(c.config.OTPLength),
			OTPStore:  otpStore,
			Mailer:    mailer,
			Wallets:   authService.NewSignatureVerifier(),
		},
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
