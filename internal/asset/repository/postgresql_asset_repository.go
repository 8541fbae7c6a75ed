package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/legacyvault/internal/asset/domain"
	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

// PostgreSQLAssetRepository handles asset persistence for PostgreSQL
type PostgreSQLAssetRepository struct {
	db *sql.DB
}

// NewPostgreSQLAssetRepository creates a new PostgreSQLAssetRepository
func NewPostgreSQLAssetRepository(db *sql.DB) *PostgreSQLAssetRepository {
	return &PostgreSQLAssetRepository{db: db}
}

// Create inserts asset and fills its generated id and timestamps.
func (r *PostgreSQLAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	querier := database.GetTx(ctx, r.db)

	metadata, err := encodeMetadata(asset.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO digital_assets (owner_id, title, description, file_path, asset_type, blockchain_hash,
			  asset_metadata, encryption_key, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = querier.QueryRowContext(ctx, query,
		asset.OwnerID, asset.Title, asset.Description, asset.FilePath, asset.AssetType, asset.BlockchainHash,
		metadata, asset.EncryptionKey,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create asset")
	}
	return nil
}

// GetByIDAndOwner returns ErrAssetNotFound for a missing asset and for one owned by another user.
func (r *PostgreSQLAssetRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetColumns + ` FROM digital_assets WHERE id = $1 AND owner_id = $2`

	asset, err := scanAsset(querier.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get asset")
	}
	return asset, nil
}

// ListByOwner returns the owner's assets, newest first.
func (r *PostgreSQLAssetRepository) ListByOwner(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetColumns + ` FROM digital_assets
			  WHERE owner_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list assets")
	}
	defer rows.Close() //nolint:errcheck

	return collect(rows)
}

func collect(rows *sql.Rows) ([]*domain.Asset, error) {
	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan asset")
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate assets")
	}
	return assets, nil
}
