// Package domain defines the identity record shared by every vault module.
package domain

import (
	"crypto/rand"
	"time"

	"github.com/allisson/legacyvault/internal/errors"
)

// UserCodeLength is the length of the public short identifier.
const UserCodeLength = 8

const userCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// User is an account. Accounts may be created from an email, a wallet or both,
// so every identity field is optional.
type User struct {
	ID             int64
	UserCode       string
	Username       *string
	WalletAddress  *string
	Email          *string
	PasswordHash   *string
	Name           *string
	IsActive       bool
	FullName       *string
	PhoneNumber    *string
	DateOfBirth    *time.Time
	Address        *string
	ProfilePicture *string
	Bio            *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastLogin      *time.Time
}

// ProfileUpdate carries optional profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	Username       *string
	FullName       *string
	PhoneNumber    *string
	DateOfBirth    *time.Time
	Address        *string
	ProfilePicture *string
	Bio            *string
}

// IsEmpty reports whether no field is set.
func (p ProfileUpdate) IsEmpty() bool {
	return p == ProfileUpdate{}
}

// ApplyProfile copies every non-nil field of p onto u.
func (u *User) ApplyProfile(p ProfileUpdate) {
	if p.Username != nil {
		u.Username = p.Username
	}
	if p.FullName != nil {
		u.FullName = p.FullName
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = p.PhoneNumber
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = p.DateOfBirth
	}
	if p.Address != nil {
		u.Address = p.Address
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = p.ProfilePicture
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
}

// HasLoggedIn reports whether the account completed at least one login.
func (u *User) HasLoggedIn() bool {
	return u.LastLogin != nil
}

// NewUserCode returns a random alphanumeric code of UserCodeLength characters.
func NewUserCode() (string, error) {
	buf := make([]byte, UserCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		// 248 is the largest multiple of 62 below 256; values above it would bias the alphabet.
		for b >= 248 {
			var one [1]byte
			if _, err := rand.Read(one[:]); err != nil {
				return "", err
			}
			b = one[0]
		}
		buf[i] = userCodeAlphabet[int(b)%len(userCodeAlphabet)]
	}
	return string(buf), nil
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a unique identity field is already taken.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrEmailAlreadyRegistered indicates the email belongs to a completed account.
	ErrEmailAlreadyRegistered = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrWalletAlreadyLinked indicates the wallet belongs to another account.
	ErrWalletAlreadyLinked = errors.Wrap(errors.ErrConflict, "wallet already connected to another account")
)
