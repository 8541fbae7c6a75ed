package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/allisson/legacyvault/internal/asset/domain"
	assetHTTP "github.com/allisson/legacyvault/internal/asset/http"
	assetRepository "github.com/allisson/legacyvault/internal/asset/repository"
	"github.com/allisson/legacyvault/internal/asset/storage"
	assetUseCase "github.com/allisson/legacyvault/internal/asset/usecase"
)

// BlobStorage returns the ciphertext storage selected by STORAGE_DRIVER.
func (c *Container) BlobStorage(ctx context.Context) (storage.BlobStorage, error) {
	err := c.lazy(&c.blobStorageInit, "blobStorage", func() (err error) {
		switch c.config.StorageDriver {
		case "local":
			c.blobStorage, err = storage.NewLocalStorage(c.config.StorageLocalDir)
		case "s3":
			c.blobStorage, err = storage.NewS3Storage(ctx, storage.S3Config{
				Bucket:   c.config.S3Bucket,
				Region:   c.config.S3Region,
				Endpoint: c.config.S3Endpoint,
				Prefix:   c.config.S3Prefix,
			})
		default:
			return fmt.Errorf("unsupported STORAGE_DRIVER: %s", c.config.StorageDriver)
		}
		if err != nil {
			return fmt.Errorf("failed to create %s blob storage: %w", c.config.StorageDriver, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.blobStorage, nil
}

// AssetRepository returns the asset repository for DB_DRIVER.
func (c *Container) AssetRepository() (assetUseCase.AssetRepository, error) {
	err := c.lazy(&c.assetRepoInit, "assetRepo", func() (err error) {
		c.assetRepo, err = byDriver[assetUseCase.AssetRepository](c, "asset repository",
			func(db *sql.DB) assetUseCase.AssetRepository { return assetRepository.NewPostgreSQLAssetRepository(db) },
			func(db *sql.DB) assetUseCase.AssetRepository { return assetRepository.NewMySQLAssetRepository(db) },
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.assetRepo, nil
}

// AssetUseCase returns the upload and download pipeline.
func (c *Container) AssetUseCase() (assetUseCase.UseCase, error) {
	err := c.lazy(&c.assetUseCaseInit, "assetUseCase", func() (err error) {
		c.assetUseCase, err = c.initAssetUseCase(context.Background())
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.assetUseCase, nil
}

// AssetHandler returns the asset HTTP handler.
func (c *Container) AssetHandler() (*assetHTTP.AssetHandler, error) {
	err := c.lazy(&c.assetHandlerInit, "assetHandler", func() error {
		useCase, err := c.AssetUseCase()
		if err != nil {
			return fmt.Errorf("failed to get asset use case for asset handler: %w", err)
		}
		c.assetHandler = assetHTTP.NewAssetHandler(useCase, c.config.MaxUploadSize, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.assetHandler, nil
}

func (c *Container) initAssetUseCase(ctx context.Context) (assetUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for asset use case: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for asset use case: %w", err)
	}

	assetRepo, err := c.AssetRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get asset repository for asset use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for asset use case: %w", err)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for asset use case: %w", err)
	}

	keys, err := c.KeyEncoder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key encoder for asset use case: %w", err)
	}

	blobs, err := c.BlobStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get blob storage for asset use case: %w", err)
	}

	baseUseCase, err := assetUseCase.NewAssetUseCase(assetUseCase.Config{
		TxManager:  txManager,
		Users:      users,
		AssetRepo:  assetRepo,
		OutboxRepo: outboxRepo,
		Cipher:     cipher,
		Keys:       keys,
		Anchorer:   c.Anchorer(),
		Blobs:      blobs,
		Policy: domain.UploadPolicy{
			MaxSize:      c.config.MaxUploadSize,
			AllowedTypes: c.config.AllowedFileTypes,
		},
		StagingDir: c.config.StagingDir,
		Logger:     c.Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create asset use case: %w", err)
	}

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for asset use case: %w", err)
		}
		return assetUseCase.NewAssetUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
