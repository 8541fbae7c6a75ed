package usecase

import (
	"context"
	"time"

	"github.com/allisson/legacyvault/internal/asset/domain"
	"github.com/allisson/legacyvault/internal/metrics"
)

// assetUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type assetUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewAssetUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewAssetUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &assetUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *assetUseCaseWithMetrics) Upload(ctx context.Context, input UploadInput) (*domain.Asset, error) {
	start := time.Now()
	asset, err := a.next.Upload(ctx, input)
	metrics.Observe(ctx, a.metrics, metrics.DomainAsset, "asset_upload", start, err)
	if err == nil {
		a.metrics.RecordBytes(ctx, metrics.DomainAsset, "asset_upload", asset.Metadata.FileSize)
	}
	return asset, err
}

func (a *assetUseCaseWithMetrics) Download(ctx context.Context, assetID, ownerID int64) (*domain.Download, error) {
	start := time.Now()
	download, err := a.next.Download(ctx, assetID, ownerID)
	metrics.Observe(ctx, a.metrics, metrics.DomainAsset, "asset_download", start, err)
	if err == nil {
		a.metrics.RecordBytes(ctx, metrics.DomainAsset, "asset_download", download.Size)
	}
	return download, err
}

func (a *assetUseCaseWithMetrics) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Asset, error) {
	start := time.Now()
	assets, err := a.next.List(ctx, ownerID, offset, limit)
	metrics.Observe(ctx, a.metrics, metrics.DomainAsset, "asset_list", start, err)
	return assets, err
}

func (a *assetUseCaseWithMetrics) Remove(download *domain.Download) error {
	return a.next.Remove(download)
}
