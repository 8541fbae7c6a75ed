package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/user/domain"
)

// MySQLUserRepository handles user persistence for MySQL
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts user and fills its generated id and timestamps.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	query := `INSERT INTO users (user_code, username, wallet_address, email, password_hash, name, is_active,
			  full_name, phone_number, date_of_birth, address, profile_picture, bio, last_login, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query,
		user.UserCode, user.Username, user.WalletAddress, user.Email, user.PasswordHash, user.Name, user.IsActive,
		user.FullName, user.PhoneNumber, user.DateOfBirth, user.Address, user.ProfilePicture, user.Bio,
		user.LastLogin, now, now,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read user id")
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// Update overwrites every mutable column of user.
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	query := `UPDATE users SET username = ?, wallet_address = ?, email = ?, password_hash = ?, name = ?,
			  is_active = ?, full_name = ?, phone_number = ?, date_of_birth = ?, address = ?,
			  profile_picture = ?, bio = ?, last_login = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query,
		user.Username, user.WalletAddress, user.Email, user.PasswordHash, user.Name,
		user.IsActive, user.FullName, user.PhoneNumber, user.DateOfBirth, user.Address,
		user.ProfilePicture, user.Bio, user.LastLogin, now, user.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update user")
	}

	// MySQL reports zero affected rows when nothing changed, so existence is checked separately.
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		if _, err := r.GetByID(ctx, user.ID); err != nil {
			return err
		}
	}

	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id, "failed to get user by id")
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email, "failed to get user by email")
}

// GetByWallet retrieves a user by wallet address. The column collation is case-insensitive.
func (r *MySQLUserRepository) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE wallet_address = ?`, wallet,
		"failed to get user by wallet")
}

func (r *MySQLUserRepository) getOne(ctx context.Context, query string, arg any, msg string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	user, err := scanUser(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, msg)
	}
	return user, nil
}
