package app

import (
	"fmt"

	outboxUseCase "github.com/allisson/legacyvault/internal/outbox/usecase"
)

// OutboxUseCase returns the outbox worker.
func (c *Container) OutboxUseCase() (outboxUseCase.UseCase, error) {
	err := c.lazy(&c.outboxUseCaseInit, "outboxUseCase", func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
		}

		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			return fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
		}

		logger := c.Logger()
		c.outboxUseCase = outboxUseCase.NewOutboxUseCase(
			outboxUseCase.Config{
				Interval:   c.config.WorkerInterval,
				BatchSize:  c.config.WorkerBatchSize,
				MaxRetries: c.config.WorkerMaxRetries,
			},
			txManager,
			outboxRepo,
			outboxUseCase.NewLoggingEventProcessor(logger),
			logger,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.outboxUseCase, nil
}
