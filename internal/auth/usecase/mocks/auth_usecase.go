// Package mocks provides testify mocks for the auth use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	"github.com/allisson/legacyvault/internal/auth/usecase"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// MockUseCase is a mock implementation of usecase.UseCase.
type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) EmailSignup(ctx context.Context, input usecase.SignupInput) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUseCase) EmailLogin(ctx context.Context, email, password string) (*authDomain.Session, error) {
	args := m.Called(ctx, email, password)
	return session(args)
}

func (m *MockUseCase) RequestOTP(ctx context.Context, email string, profile userDomain.ProfileUpdate) error {
	args := m.Called(ctx, email, profile)
	return args.Error(0)
}

func (m *MockUseCase) VerifyOTP(
	ctx context.Context,
	email, code string,
	profile userDomain.ProfileUpdate,
) (*authDomain.Session, error) {
	args := m.Called(ctx, email, code, profile)
	return session(args)
}

func (m *MockUseCase) VerifySignupOTP(
	ctx context.Context,
	email, code string,
	profile userDomain.ProfileUpdate,
) (*userDomain.User, error) {
	args := m.Called(ctx, email, code, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUseCase) WalletLogin(ctx context.Context, wallet, signature, username string) (*authDomain.Session, error) {
	args := m.Called(ctx, wallet, signature, username)
	return session(args)
}

func (m *MockUseCase) ConnectWallet(
	ctx context.Context,
	wallet, signature string,
	email *string,
) (*authDomain.Session, error) {
	args := m.Called(ctx, wallet, signature, email)
	return session(args)
}

func (m *MockUseCase) Authenticate(ctx context.Context, token string) (*authDomain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

func session(args mock.Arguments) (*authDomain.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Session), args.Error(1)
}
