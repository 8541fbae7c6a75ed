// Package repository provides PostgreSQL and MySQL persistence for assets.
package repository

import (
	"encoding/json"
	"fmt"

	"github.com/allisson/legacyvault/internal/asset/domain"
)

const assetColumns = `id, owner_id, title, description, file_path, asset_type, blockchain_hash,
	asset_metadata, encryption_key, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var (
		a        domain.Asset
		metadata []byte
	)
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Title, &a.Description, &a.FilePath, &a.AssetType, &a.BlockchainHash,
		&metadata, &a.EncryptionKey, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode asset metadata: %w", err)
		}
	}
	return &a, nil
}

func encodeMetadata(m domain.Metadata) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode asset metadata: %w", err)
	}
	return data, nil
}
