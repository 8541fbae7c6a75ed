package app

import (
	"context"
	"database/sql"
	"fmt"

	messageHTTP "github.com/allisson/legacyvault/internal/message/http"
	messageRepository "github.com/allisson/legacyvault/internal/message/repository"
	messageUseCase "github.com/allisson/legacyvault/internal/message/usecase"
)

// MessageRepository returns the scheduled message repository for DB_DRIVER.
func (c *Container) MessageRepository() (messageUseCase.MessageRepository, error) {
	err := c.lazy(&c.messageRepoInit, "messageRepo", func() (err error) {
		c.messageRepo, err = byDriver[messageUseCase.MessageRepository](c, "message repository",
			func(db *sql.DB) messageUseCase.MessageRepository {
				return messageRepository.NewPostgreSQLMessageRepository(db)
			},
			func(db *sql.DB) messageUseCase.MessageRepository {
				return messageRepository.NewMySQLMessageRepository(db)
			},
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.messageRepo, nil
}

// MessageUseCase returns the scheduled message use case.
func (c *Container) MessageUseCase() (messageUseCase.UseCase, error) {
	err := c.lazy(&c.messageUseCaseInit, "messageUseCase", func() (err error) {
		c.messageUseCase, err = c.initMessageUseCase(context.Background())
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.messageUseCase, nil
}

// MessageHandler returns the scheduled message HTTP handler.
func (c *Container) MessageHandler() (*messageHTTP.MessageHandler, error) {
	err := c.lazy(&c.messageHandlerInit, "messageHandler", func() error {
		useCase, err := c.MessageUseCase()
		if err != nil {
			return fmt.Errorf("failed to get message use case for message handler: %w", err)
		}
		c.messageHandler = messageHTTP.NewMessageHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.messageHandler, nil
}

func (c *Container) initMessageUseCase(ctx context.Context) (messageUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for message use case: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for message use case: %w", err)
	}

	messageRepo, err := c.MessageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get message repository for message use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for message use case: %w", err)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for message use case: %w", err)
	}

	keys, err := c.KeyEncoder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key encoder for message use case: %w", err)
	}

	baseUseCase := messageUseCase.NewMessageUseCase(
		txManager,
		users,
		messageRepo,
		outboxRepo,
		cipher,
		keys,
		c.Anchorer(),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for message use case: %w", err)
		}
		return messageUseCase.NewMessageUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
