package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOutboxUseCase struct {
	mock.Mock
}

func (m *mockOutboxUseCase) Start(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockOutboxUseCase) ProcessEvents(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestRunWorker(t *testing.T) {
	t.Run("cancellation-is-clean", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		useCase := &mockOutboxUseCase{}
		useCase.On("Start", ctx).Return(context.Canceled)

		require.NoError(t, RunWorker(ctx, useCase, discardLogger()))
		useCase.AssertExpectations(t)
	})

	t.Run("propagates-error", func(t *testing.T) {
		ctx := context.Background()
		useCase := &mockOutboxUseCase{}
		useCase.On("Start", ctx).Return(errors.New("db gone"))

		err := RunWorker(ctx, useCase, discardLogger())
		require.EqualError(t, err, "db gone")
	})
}
