package dto

import (
	"time"

	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// UserResponse is the public view of an account. It never includes the password hash.
type UserResponse struct {
	ID             int64      `json:"id"`
	UserCode       string     `json:"user_code"`
	Email          *string    `json:"email"`
	Username       *string    `json:"username"`
	FullName       *string    `json:"full_name"`
	PhoneNumber    *string    `json:"phone_number"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Address        *string    `json:"address"`
	Bio            *string    `json:"bio"`
	ProfilePicture *string    `json:"profile_picture"`
	WalletAddress  *string    `json:"wallet_address"`
}

// MapUserToResponse converts a domain user to a response body.
func MapUserToResponse(user *userDomain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		UserCode:       user.UserCode,
		Email:          user.Email,
		Username:       user.Username,
		FullName:       user.FullName,
		PhoneNumber:    user.PhoneNumber,
		DateOfBirth:    user.DateOfBirth,
		Address:        user.Address,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		WalletAddress:  user.WalletAddress,
	}
}
