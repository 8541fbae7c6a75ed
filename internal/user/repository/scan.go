// Package repository provides PostgreSQL and MySQL persistence for users.
package repository

import (
	"github.com/allisson/legacyvault/internal/user/domain"
)

const userColumns = `id, user_code, username, wallet_address, email, password_hash, name, is_active,
	full_name, phone_number, date_of_birth, address, profile_picture, bio, created_at, updated_at, last_login`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.UserCode, &u.Username, &u.WalletAddress, &u.Email, &u.PasswordHash, &u.Name, &u.IsActive,
		&u.FullName, &u.PhoneNumber, &u.DateOfBirth, &u.Address, &u.ProfilePicture, &u.Bio,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
