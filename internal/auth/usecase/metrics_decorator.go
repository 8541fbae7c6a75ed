package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	"github.com/allisson/legacyvault/internal/metrics"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// authUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, a.metrics, metrics.DomainAuth, operation, start, err)
}

func (a *authUseCaseWithMetrics) EmailSignup(ctx context.Context, input SignupInput) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.EmailSignup(ctx, input)
	a.record(ctx, "email_signup", start, err)
	return user, err
}

func (a *authUseCaseWithMetrics) EmailLogin(ctx context.Context, email, password string) (*authDomain.Session, error) {
	start := time.Now()
	session, err := a.next.EmailLogin(ctx, email, password)
	a.record(ctx, "email_login", start, err)
	return session, err
}

func (a *authUseCaseWithMetrics) RequestOTP(ctx context.Context, email string, profile userDomain.ProfileUpdate) error {
	start := time.Now()
	err := a.next.RequestOTP(ctx, email, profile)
	a.record(ctx, "otp_request", start, err)
	return err
}

func (a *authUseCaseWithMetrics) VerifyOTP(
	ctx context.Context,
	email, code string,
	profile userDomain.ProfileUpdate,
) (*authDomain.Session, error) {
	start := time.Now()
	session, err := a.next.VerifyOTP(ctx, email, code, profile)
	a.record(ctx, "otp_verify", start, err)
	return session, err
}

func (a *authUseCaseWithMetrics) VerifySignupOTP(
	ctx context.Context,
	email, code string,
	profile userDomain.ProfileUpdate,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.VerifySignupOTP(ctx, email, code, profile)
	a.record(ctx, "otp_verify_signup", start, err)
	return user, err
}

func (a *authUseCaseWithMetrics) WalletLogin(
	ctx context.Context,
	wallet, signature, username string,
) (*authDomain.Session, error) {
	start := time.Now()
	session, err := a.next.WalletLogin(ctx, wallet, signature, username)
	a.record(ctx, "wallet_login", start, err)
	return session, err
}

func (a *authUseCaseWithMetrics) ConnectWallet(
	ctx context.Context,
	wallet, signature string,
	email *string,
) (*authDomain.Session, error) {
	start := time.Now()
	session, err := a.next.ConnectWallet(ctx, wallet, signature, email)
	a.record(ctx, "wallet_connect", start, err)
	return session, err
}

func (a *authUseCaseWithMetrics) Authenticate(ctx context.Context, token string) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, token)
	a.record(ctx, "authenticate", start, err)
	return principal, err
}
