package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/user/domain"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts user and fills its generated id and timestamps.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (user_code, username, wallet_address, email, password_hash, name, is_active,
			  full_name, phone_number, date_of_birth, address, profile_picture, bio, last_login, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := querier.QueryRowContext(ctx, query,
		user.UserCode, user.Username, user.WalletAddress, user.Email, user.PasswordHash, user.Name, user.IsActive,
		user.FullName, user.PhoneNumber, user.DateOfBirth, user.Address, user.ProfilePicture, user.Bio,
		user.LastLogin,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Update overwrites every mutable column of user.
func (r *PostgreSQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET username = $1, wallet_address = $2, email = $3, password_hash = $4, name = $5,
			  is_active = $6, full_name = $7, phone_number = $8, date_of_birth = $9, address = $10,
			  profile_picture = $11, bio = $12, last_login = $13, updated_at = NOW()
			  WHERE id = $14
			  RETURNING updated_at`

	err := querier.QueryRowContext(ctx, query,
		user.Username, user.WalletAddress, user.Email, user.PasswordHash, user.Name,
		user.IsActive, user.FullName, user.PhoneNumber, user.DateOfBirth, user.Address,
		user.ProfilePicture, user.Bio, user.LastLogin, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id, "failed to get user by id")
}

// GetByEmail retrieves a user by email
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email, "failed to get user by email")
}

// GetByWallet retrieves a user by wallet address, ignoring hex case.
func (r *PostgreSQLUserRepository) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(wallet_address) = LOWER($1)`, wallet,
		"failed to get user by wallet")
}

func (r *PostgreSQLUserRepository) getOne(ctx context.Context, query string, arg any, msg string) (*domain.User, error) {
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
