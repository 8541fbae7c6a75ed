// Package mocks provides testify mocks of the user use case for other modules' tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/legacyvault/internal/user/domain"
)

// MockUserUseCase is a mock implementation of usecase.UseCase.
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserUseCase) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserUseCase) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserUseCase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserUseCase) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	args := m.Called(ctx, wallet)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserUseCase) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserUseCase) UpdateProfile(
	ctx context.Context,
	id int64,
	update domain.ProfileUpdate,
) (*domain.User, error) {
	args := m.Called(ctx, id, update)
	return userOrNil(args.Get(0)), args.Error(1)
}

func userOrNil(v any) *domain.User {
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}
