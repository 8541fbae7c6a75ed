package dto

import (
	"time"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	userDTO "github.com/allisson/legacyvault/internal/user/http/dto"
)

// MessageResponse is returned by endpoints that only acknowledge the request.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignupResponse is returned when an account is created or completed.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// SessionResponse is returned by every login flow.
type SessionResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	ExpiresAt   time.Time            `json:"expires_at"`
	User        userDTO.UserResponse `json:"user"`
}

// MapSessionToResponse converts a domain session to a response body.
func MapSessionToResponse(session *authDomain.Session) SessionResponse {
	return SessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresAt:   session.ExpiresAt,
		User:        userDTO.MapUserToResponse(session.User),
	}
}
