// Package mocks provides testify mocks for the access rule use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	"github.com/allisson/legacyvault/internal/accessrule/usecase"
)

// MockAccessRuleUseCase is a mock implementation of usecase.UseCase.
type MockAccessRuleUseCase struct {
	mock.Mock
}

func (m *MockAccessRuleUseCase) Create(ctx context.Context, input usecase.CreateInput) (*domain.AccessRule, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRule), args.Error(1)
}

func (m *MockAccessRuleUseCase) ListByAsset(ctx context.Context, assetID, ownerID int64) ([]*domain.AccessRule, error) {
	args := m.Called(ctx, assetID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccessRule), args.Error(1)
}
