package app

import (
	"database/sql"
	"fmt"

	accessRuleHTTP "github.com/allisson/legacyvault/internal/accessrule/http"
	accessRuleRepository "github.com/allisson/legacyvault/internal/accessrule/repository"
	accessRuleUseCase "github.com/allisson/legacyvault/internal/accessrule/usecase"
)

// AccessRuleRepository returns the access rule repository for DB_DRIVER.
func (c *Container) AccessRuleRepository() (accessRuleUseCase.AccessRuleRepository, error) {
	err := c.lazy(&c.accessRuleRepoInit, "accessRuleRepo", func() (err error) {
		c.accessRuleRepo, err = byDriver[accessRuleUseCase.AccessRuleRepository](c, "access rule repository",
			func(db *sql.DB) accessRuleUseCase.AccessRuleRepository {
				return accessRuleRepository.NewPostgreSQLAccessRuleRepository(db)
			},
			func(db *sql.DB) accessRuleUseCase.AccessRuleRepository {
				return accessRuleRepository.NewMySQLAccessRuleRepository(db)
			},
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.accessRuleRepo, nil
}

// AccessRuleUseCase returns the access rule use case.
func (c *Container) AccessRuleUseCase() (accessRuleUseCase.UseCase, error) {
	err := c.lazy(&c.accessRuleUseCaseInit, "accessRuleUseCase", func() (err error) {
		c.accessRuleUseCase, err = c.initAccessRuleUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.accessRuleUseCase, nil
}

// AccessRuleHandler returns the access rule HTTP handler.
func (c *Container) AccessRuleHandler() (*accessRuleHTTP.AccessRuleHandler, error) {
	err := c.lazy(&c.accessRuleHandlerInit, "accessRuleHandler", func() error {
		useCase, err := c.AccessRuleUseCase()
		if err != nil {
			return fmt.Errorf("failed to get access rule use case for access rule handler: %w", err)
		}
		c.accessRuleHandler = accessRuleHTTP.NewAccessRuleHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.accessRuleHandler, nil
}

func (c *Container) initAccessRuleUseCase() (accessRuleUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for access rule use case: %w", err)
	}

	assetRepo, err := c.AssetRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get asset repository for access rule use case: %w", err)
	}

	ruleRepo, err := c.AccessRuleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access rule repository for access rule use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for access rule use case: %w", err)
	}

	baseUseCase := accessRuleUseCase.NewAccessRuleUseCase(
		txManager,
		assetRepo,
		ruleRepo,
		outboxRepo,
		c.Anchorer(),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access rule use case: %w", err)
		}
		return accessRuleUseCase.NewAccessRuleUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
