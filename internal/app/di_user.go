package app

import (
	"database/sql"
	"fmt"

	outboxRepository "github.com/allisson/legacyvault/internal/outbox/repository"
	outboxUseCase "github.com/allisson/legacyvault/internal/outbox/usecase"
	userHTTP "github.com/allisson/legacyvault/internal/user/http"
	userRepository "github.com/allisson/legacyvault/internal/user/repository"
	userUseCase "github.com/allisson/legacyvault/internal/user/usecase"
)

// UserRepository returns the user repository for DB_DRIVER.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	err := c.lazy(&c.userRepoInit, "userRepo", func() (err error) {
		c.userRepo, err = byDriver[userUseCase.UserRepository](c, "user repository",
			func(db *sql.DB) userUseCase.UserRepository { return userRepository.NewPostgreSQLUserRepository(db) },
			func(db *sql.DB) userUseCase.UserRepository { return userRepository.NewMySQLUserRepository(db) },
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.userRepo, nil
}

// OutboxRepository returns the outbox event repository for DB_DRIVER.
func (c *Container) OutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	err := c.lazy(&c.outboxRepoInit, "outboxRepo", func() (err error) {
		c.outboxRepo, err = byDriver[outboxUseCase.OutboxEventRepository](c, "outbox repository",
			func(db *sql.DB) outboxUseCase.OutboxEventRepository {
				return outboxRepository.NewPostgreSQLOutboxEventRepository(db)
			},
			func(db *sql.DB) outboxUseCase.OutboxEventRepository {
				return outboxRepository.NewMySQLOutboxEventRepository(db)
			},
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.outboxRepo, nil
}

// UserUseCase returns the identity use case.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	err := c.lazy(&c.userUseCaseInit, "userUseCase", func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for user use case: %w", err)
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository for user use case: %w", err)
		}

		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			return fmt.Errorf("failed to get outbox repository for user use case: %w", err)
		}

		c.userUseCase = userUseCase.NewUserUseCase(txManager, userRepo, outboxRepo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.userUseCase, nil
}

// UserHandler returns the profile HTTP handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	err := c.lazy(&c.userHandlerInit, "userHandler", func() error {
		useCase, err := c.UserUseCase()
		if err != nil {
			return fmt.Errorf("failed to get user use case for user handler: %w", err)
		}
		c.userHandler = userHTTP.NewUserHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.userHandler, nil
}
