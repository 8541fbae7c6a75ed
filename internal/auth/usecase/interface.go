// Package usecase implements the login flows: email and password, emailed
// one-time codes and wallet signatures, plus bearer token authentication.
package usecase

import (
	"context"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// UserService is the identity collaborator used by every login flow.
type UserService interface {
	Register(ctx context.Context, user *userDomain.User) error
	Save(ctx context.Context, user *userDomain.User) error
	GetByID(ctx context.Context, id int64) (*userDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
	GetByWallet(ctx context.Context, wallet string) (*userDomain.User, error)
}

// SignupInput carries the fields accepted by EmailSignup.
type SignupInput struct {
	Email    string
	Password string
	Profile  userDomain.ProfileUpdate
}

// UseCase defines the authentication operations exposed over HTTP.
type UseCase interface {
	// EmailSignup creates a password account. Returns ErrEmailAlreadyRegistered if the email is taken.
	EmailSignup(ctx context.Context, input SignupInput) (*userDomain.User, error)

	// EmailLogin verifies the password. Unknown emails and wrong passwords both return ErrInvalidCredentials.
	EmailLogin(ctx context.Context, email, password string) (*authDomain.Session, error)

	// RequestOTP creates the user on first contact, then mails a fresh code that replaces any earlier one.
	// The code is only stored after the mail is accepted.
	RequestOTP(ctx context.Context, email string, profile userDomain.ProfileUpdate) error

	// VerifyOTP consumes the code, applies profile fields and records the login.
	VerifyOTP(ctx context.Context, email, code string, profile userDomain.ProfileUpdate) (*authDomain.Session, error)

	// VerifySignupOTP consumes the code and creates or completes an account that has never logged in.
	VerifySignupOTP(
		ctx context.Context,
		email, code string,
		profile userDomain.ProfileUpdate,
	) (*userDomain.User, error)

	// WalletLogin verifies a signature over LoginMessage and logs in, creating the account if needed.
	WalletLogin(ctx context.Context, wallet, signature, username string) (*authDomain.Session, error)

	// ConnectWallet verifies a signature over ConnectMessage. With an email the wallet is
	// linked to that account; without one it behaves like a wallet login.
	ConnectWallet(ctx context.Context, wallet, signature string, email *string) (*authDomain.Session, error)

	// Authenticate resolves a bearer token to an active user.
	Authenticate(ctx context.Context, token string) (*authDomain.Principal, error)
}
