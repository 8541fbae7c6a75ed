// Package usecase implements identity lookups, account registration and profile maintenance.
package usecase

import (
	"context"

	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
	"github.com/allisson/legacyvault/internal/user/domain"
)

// UseCase defines the interface for user business logic operations
type UseCase interface {
	// Register creates user with a fresh user code and records a user.registered event.
	Register(ctx context.Context, user *domain.User) error
	// Save persists changes to an existing user.
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByWallet(ctx context.Context, wallet string) (*domain.User, error)
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
	// UpdateProfile applies only the fields set in update.
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByWallet(ctx context.Context, wallet string) (*domain.User, error)
}

// OutboxEventRepository records domain events in the caller's transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager  database.TxManager
	userRepo   UserRepository
	outboxRepo OutboxEventRepository
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	outboxRepo OutboxEventRepository,
) *UserUseCase {
	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
	}
}

func (uc *UserUseCase) Register(ctx context.Context, user *domain.User) error {
	code, err := domain.NewUserCode()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate user code")
	}
	user.UserCode = code
	user.IsActive = true

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(outboxDomain.EventUserRegistered, map[string]interface{}{
			"user_id":    user.ID,
			"user_code":  user.UserCode,
			"has_email":  user.Email != nil,
			"has_wallet": user.WalletAddress != nil,
		})
		if err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, event)
	})
}

func (uc *UserUseCase) Save(ctx context.Context, user *domain.User) error {
	return uc.userRepo.Update(ctx, user)
}

func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *UserUseCase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, email)
}

func (uc *UserUseCase) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	return uc.userRepo.GetByWallet(ctx, wallet)
}

func (uc *UserUseCase) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *UserUseCase) UpdateProfile(
	ctx context.Context,
	id int64,
	update domain.ProfileUpdate,
) (*domain.User, error) {
	var user *domain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if update.IsEmpty() {
			return nil
		}

		user.ApplyProfile(update)
		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
