// Package mocks provides testify mocks for the scheduled message use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/legacyvault/internal/message/domain"
	"github.com/allisson/legacyvault/internal/message/usecase"
)

// MockMessageUseCase is a mock implementation of usecase.UseCase.
type MockMessageUseCase struct {
	mock.Mock
}

func (m *MockMessageUseCase) ResolveOwner(ctx context.Context, ref string) (int64, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageUseCase) Schedule(
	ctx context.Context,
	input usecase.ScheduleInput,
) (*domain.ScheduledMessage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledMessage), args.Error(1)
}

func (m *MockMessageUseCase) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.ScheduledMessage, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduledMessage), args.Error(1)
}
