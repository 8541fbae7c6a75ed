package commands

import (
	"context"
	"errors"
	"log/slog"

	outboxUseCase "github.com/allisson/legacyvault/internal/outbox/usecase"
)

// RunWorker drains the outbox until ctx is cancelled. Cancellation is a clean exit.
func RunWorker(ctx context.Context, useCase outboxUseCase.UseCase, logger *slog.Logger) error {
	logger.Info("starting outbox worker")

	err := useCase.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("outbox worker stopped")
	return nil
}
