// Package mocks provides testify mocks for the asset use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/legacyvault/internal/asset/domain"
	"github.com/allisson/legacyvault/internal/asset/usecase"
)

// MockAssetUseCase is a mock implementation of usecase.UseCase.
type MockAssetUseCase struct {
	mock.Mock
}

var _ usecase.UseCase = (*MockAssetUseCase)(nil)

func (m *MockAssetUseCase) Upload(ctx context.Context, input usecase.UploadInput) (*domain.Asset, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetUseCase) Download(ctx context.Context, assetID, ownerID int64) (*domain.Download, error) {
	args := m.Called(ctx, assetID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Download), args.Error(1)
}

func (m *MockAssetUseCase) List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Asset, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func (m *MockAssetUseCase) Remove(download *domain.Download) error {
	args := m.Called(download)
	return args.Error(0)
}
