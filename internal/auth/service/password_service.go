package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/legacyvault/internal/errors"
)

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService tuned for interactive logins.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

func (s *passwordService) Hash(plain string) (string, error) {
	hash, err := s.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

func (s *passwordService) Compare(plain, hash string) bool {
	if hash == "" {
		return false
	}
	ok, err := s.hasher.Verify([]byte(plain), hash)
	return err == nil && ok
}
