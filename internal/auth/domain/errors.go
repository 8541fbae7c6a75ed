package domain

import (
	"github.com/allisson/legacyvault/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid email or password")

	// ErrInvalidSignature indicates the wallet signature does not recover to the claimed address.
	ErrInvalidSignature = errors.Wrap(errors.ErrUnauthorized, "invalid signature")

	// ErrInvalidToken indicates a malformed, tampered or expired access token.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid or expired token")

	// ErrInvalidOTP indicates a wrong, missing or expired one-time code.
	ErrInvalidOTP = errors.Wrap(errors.ErrInvalidInput, "invalid or expired OTP")

	// ErrOTPDelivery indicates the code could not be mailed. It maps to an internal error.
	ErrOTPDelivery = errors.New("failed to send OTP")
)
