package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	authService "github.com/allisson/legacyvault/internal/auth/service"
	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// Config holds OTP policy.
type Config struct {
	OTPExpiration time.Duration
}

// Services groups the credential primitives used by AuthUseCase.
type Services struct {
	Tokens    authService.TokenService
	Passwords authService.PasswordService
	OTPs      authService.OTPGenerator
	OTPStore  authService.OTPStore
	Mailer    authService.Mailer
	Wallets   authService.SignatureVerifier
}

// AuthUseCase implements UseCase.
type AuthUseCase struct {
	config    Config
	txManager database.TxManager
	users     UserService
	services  Services
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthUseCase creates an AuthUseCase.
func NewAuthUseCase(
	config Config,
	txManager database.TxManager,
	users UserService,
	services Services,
	logger *slog.Logger,
) *AuthUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthUseCase{
		config:    config,
		txManager: txManager,
		users:     users,
		services:  services,
		logger:    logger,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *AuthUseCase) EmailSignup(ctx context.Context, input SignupInput) (*userDomain.User, error) {
	email := normalizeEmail(input.Email)

	hash, err := uc.services.Passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &userDomain.User{Email: &email, PasswordHash: &hash}
	user.ApplyProfile(input.Profile)

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := uc.users.GetByEmail(ctx, email)
		switch {
		case err == nil && existing != nil:
			return userDomain.ErrEmailAlreadyRegistered
		case err != nil && !apperrors.Is(err, userDomain.ErrUserNotFound):
			return err
		}
		return uc.users.Register(ctx, user)
	})
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserAlreadyExists) {
			return nil, userDomain.ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) EmailLogin(ctx context.Context, email, password string) (*authDomain.Session, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !uc.services.Passwords.Compare(password, *user.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	return uc.login(ctx, user)
}

func (uc *AuthUseCase) RequestOTP(ctx context.Context, email string, profile userDomain.ProfileUpdate) error {
	email = normalizeEmail(email)

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		_, err := uc.users.GetByEmail(ctx, email)
		if err == nil || !apperrors.Is(err, userDomain.ErrUserNotFound) {
			return err
		}

		user := &userDomain.User{Email: &email}
		user.ApplyProfile(profile)
		return uc.users.Register(ctx, user)
	})
	if err != nil {
		return err
	}

	code, err := uc.services.OTPs.Generate()
	if err != nil {
		return err
	}

	if err := uc.services.Mailer.SendOTP(ctx, email, code, uc.config.OTPExpiration); err != nil {
		uc.logger.ErrorContext(ctx, "otp delivery failed", slog.String("email", email), slog.Any("error", err))
		return apperrors.Join(authDomain.ErrOTPDelivery, err)
	}

	return uc.services.OTPStore.Save(ctx, email, code, uc.config.OTPExpiration)
}

func (uc *AuthUseCase) VerifyOTP(
	ctx context.Context,
	email, code string,
	profile userDomain.ProfileUpdate,
) (*authDomain.Session, error) {
	email = normalizeEmail(email)

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := uc.services.OTPStore.Consume(ctx, email, code); err != nil {
		return nil, err
	}

	user.ApplyProfile(profile)
	return uc.login(ctx, user)
}

func (uc *AuthUseCase) VerifySignupOTP(
	ctx context.Context,
	email, code string,
	profile userDomain.ProfileUpdate,
) (*userDomain.User, error) {
	email = normalizeEmail(email)

	existing, err := uc.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.HasLoggedIn():
		return nil, userDomain.ErrEmailAlreadyRegistered
	case err != nil && !apperrors.Is(err, userDomain.ErrUserNotFound):
		return nil, err
	}

	if err := uc.services.OTPStore.Consume(ctx, email, code); err != nil {
		return nil, err
	}

	if existing != nil {
		existing.ApplyProfile(profile)
		if err := uc.users.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	user := &userDomain.User{Email: &email}
	user.ApplyProfile(profile)
	if err := uc.users.Register(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) WalletLogin(
	ctx context.Context,
	wallet, signature, username string,
) (*authDomain.Session, error) {
	message := authDomain.LoginMessage(username, uc.now())
	if err := uc.services.Wallets.Verify(message, signature, wallet); err != nil {
		return nil, err
	}

	var user *userDomain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.users.GetByWallet(ctx, wallet)
		if err != nil && !apperrors.Is(err, userDomain.ErrUserNotFound) {
			return err
		}

		if user == nil {
			user = &userDomain.User{WalletAddress: &wallet}
			if username != "" {
				user.Username = &username
			}
			return uc.registerWithLogin(ctx, user)
		}

		if username != "" {
			user.Username = &username
		}
		return uc.touchLogin(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) ConnectWallet(
	ctx context.Context,
	wallet, signature string,
	email *string,
) (*authDomain.Session, error) {
	message := authDomain.ConnectMessage(wallet, uc.now())
	if err := uc.services.Wallets.Verify(message, signature, wallet); err != nil {
		return nil, err
	}

	var user *userDomain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		linked, err := uc.users.GetByWallet(ctx, wallet)
		if err != nil && !apperrors.Is(err, userDomain.ErrUserNotFound) {
			return err
		}

		if email == nil {
			if linked != nil {
				user = linked
				return uc.touchLogin(ctx, user)
			}
			user = &userDomain.User{WalletAddress: &wallet}
			return uc.registerWithLogin(ctx, user)
		}

		user, err = uc.users.GetByEmail(ctx, normalizeEmail(*email))
		if err != nil {
			return err
		}
		if linked != nil && linked.ID != user.ID {
			return userDomain.ErrWalletAlreadyLinked
		}

		user.WalletAddress = &wallet
		return uc.touchLogin(ctx, user)
	})
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserAlreadyExists) {
			return nil, userDomain.ErrWalletAlreadyLinked
		}
		return nil, err
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*authDomain.Principal, error) {
	principal, err := uc.services.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrForbidden
	}

	return principal, nil
}

// login records the login time on an existing user and issues a session.
func (uc *AuthUseCase) login(ctx context.Context, user *userDomain.User) (*authDomain.Session, error) {
	if err := uc.touchLogin(ctx, user); err != nil {
		return nil, err
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) touchLogin(ctx context.Context, user *userDomain.User) error {
	now := uc.now().UTC()
	user.LastLogin = &now
	return uc.users.Save(ctx, user)
}

func (uc *AuthUseCase) registerWithLogin(ctx context.Context, user *userDomain.User) error {
	now := uc.now().UTC()
	user.LastLogin = &now
	return uc.users.Register(ctx, user)
}

func (uc *AuthUseCase) issue(user *userDomain.User) (*authDomain.Session, error) {
	token, expiresAt, err := uc.services.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &authDomain.Session{
		AccessToken: token,
		TokenType:   authDomain.TokenTypeBearer,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
