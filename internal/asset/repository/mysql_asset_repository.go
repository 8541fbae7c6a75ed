package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/legacyvault/internal/asset/domain"
	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

// MySQLAssetRepository handles asset persistence for MySQL
type MySQLAssetRepository struct {
	db *sql.DB
}

// NewMySQLAssetRepository creates a new MySQLAssetRepository
func NewMySQLAssetRepository(db *sql.DB) *MySQLAssetRepository {
	return &MySQLAssetRepository{db: db}
}

// Create inserts asset and fills its generated id and timestamps.
func (r *MySQLAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	metadata, err := encodeMetadata(asset.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO digital_assets (owner_id, title, description, file_path, asset_type, blockchain_hash,
			  asset_metadata, encryption_key, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query,
		asset.OwnerID, asset.Title, asset.Description, asset.FilePath, asset.AssetType, asset.BlockchainHash,
		metadata, asset.EncryptionKey, now, now,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create asset")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read asset id")
	}

	asset.ID = id
	asset.CreatedAt = now
	asset.UpdatedAt = now
	return nil
}

// GetByIDAndOwner returns ErrAssetNotFound for a missing asset and for one owned by another user.
func (r *MySQLAssetRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetColumns + ` FROM digital_assets WHERE id = ? AND owner_id = ?`

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
func (r *MySQLAssetRepository) ListByOwner(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetColumns + ` FROM digital_assets
			  WHERE owner_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list assets")
	}
	defer rows.Close() //nolint:errcheck

	return collect(rows)
}
