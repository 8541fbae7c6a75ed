// Package dto provides the asset HTTP request and response shapes.
package dto

import (
	"time"

	"github.com/allisson/legacyvault/internal/asset/domain"
)

// UploadResponse describes a stored asset. It never carries the key or storage path.
type UploadResponse struct {
	AssetID          int64   `json:"asset_id"`
	Title            string  `json:"title"`
	FileSize         int64   `json:"file_size"`
	ContentType      string  `json:"content_type"`
	OriginalFilename string  `json:"original_filename"`
	BlockchainHash   *string `json:"blockchain_hash,omitempty"`
}

// AssetResponse is one entry of the asset list.
type AssetResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	AssetType   string    `json:"asset_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListAssetsResponse wraps a page of assets.
type ListAssetsResponse struct {
	Data []AssetResponse `json:"data"`
}

// MapAssetToUploadResponse converts an uploaded asset.
func MapAssetToUploadResponse(asset *domain.Asset) UploadResponse {
	return UploadResponse{
		AssetID:          asset.ID,
		Title:            asset.Title,
		FileSize:         asset.Metadata.FileSize,
		ContentType:      asset.Metadata.ContentType,
		OriginalFilename: asset.Metadata.OriginalName,
		BlockchainHash:   asset.BlockchainHash,
	}
}

// MapAssetsToListResponse converts a page of assets.
func MapAssetsToListResponse(assets []*domain.Asset) ListAssetsResponse {
	data := make([]AssetResponse, 0, len(assets))
	for _, asset := range assets {
		data = append(data, AssetResponse{
			ID:          asset.ID,
			Title:       asset.Title,
			Description: asset.Description,
			AssetType:   asset.AssetType,
			CreatedAt:   asset.CreatedAt,
		})
	}
	return ListAssetsResponse{Data: data}
}
