// Package domain defines authentication models shared by the auth services,
// use cases and HTTP middleware.
package domain

import (
	"fmt"
	"time"

	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// Principal is the identity carried by a verified access token.
type Principal struct {
	UserID int64
	Email  string
	Wallet string
}

// Session is returned by every successful login flow.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        *userDomain.User
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// LoginMessage is the text a wallet signs to log in as username on the UTC date of at.
func LoginMessage(username string, at time.Time) string {
	return fmt.Sprintf("Login to Digital Legacy as %s at %s", username, at.UTC().Format(time.DateOnly))
}

// ConnectMessage is the text a wallet signs to link itself to an account.
func ConnectMessage(wallet string, at time.Time) string {
	return fmt.Sprintf("Connect wallet %s to Digital Legacy at %s", wallet, at.UTC().Format(time.DateOnly))
}
