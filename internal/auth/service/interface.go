// Package service provides the credential primitives behind every login flow:
// access tokens, password hashing, one-time codes, wallet signatures and mail delivery.
package service

import (
	"context"
	"time"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// TokenService issues and verifies bearer access tokens.
type TokenService interface {
	// Issue signs a token for user and returns it with its expiry.
	Issue(user *userDomain.User) (string, time.Time, error)

	// Parse verifies signature and expiry. Any failure is ErrInvalidToken.
	Parse(token string) (*authDomain.Principal, error)
}

// PasswordService hashes and verifies account passwords.
type PasswordService interface {
	Hash(plain string) (string, error)

	// Compare reports whether plain matches hash. Malformed hashes never match.
	Compare(plain, hash string) bool
}

// OTPGenerator produces numeric one-time codes.
type OTPGenerator interface {
	Generate() (string, error)
}

// OTPStore keeps at most one pending code per email.
type OTPStore interface {
	// Save stores code for email, replacing any earlier code.
	Save(ctx context.Context, email, code string, ttl time.Duration) error

	// Consume checks code against the pending code for email. A match or an
	// expired entry removes the pending code. A mismatch leaves it in place.
	// Every failure to verify returns ErrInvalidOTP.
	Consume(ctx context.Context, email, code string) error
}

// SignatureVerifier checks EIP-191 personal_sign signatures.
type SignatureVerifier interface {
	// Verify returns ErrInvalidSignature unless signature over message recovers to address.
	Verify(message, signature, address string) error
}

// Mailer delivers one-time codes.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}
