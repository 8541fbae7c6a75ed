// Package usecase runs the asset pipeline: stage, encrypt, anchor, store and
// record on upload, and the reverse on download.
package usecase

import (
	"context"
	"io"

	"github.com/allisson/legacyvault/internal/asset/domain"
	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// UploadInput describes one multipart upload.
type UploadInput struct {
	OwnerID     int64
	Title       *string
	Description *string
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UseCase defines the interface for asset operations.
type UseCase interface {
	// Upload encrypts the content and records it under OwnerID.
	Upload(ctx context.Context, input UploadInput) (*domain.Asset, error)
	// Download decrypts the asset to a temporary file. The caller must call Remove on the result.
	Download(ctx context.Context, assetID, ownerID int64) (*domain.Download, error)
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Asset, error)
	// Remove deletes the plaintext staged by Download.
	Remove(download *domain.Download) error
}

// AssetRepository interface defines asset persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Asset, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Asset, error)
}

// OutboxEventRepository records domain events in the caller's transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// UserLookup resolves the owner of an upload.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*userDomain.User, error)
}

// FileCipher seals and opens asset files.
type FileCipher interface {
	EncryptFile(plaintextPath string) (string, cryptoDomain.Key, error)
	DecryptToFile(src io.Reader, dir, name string, key cryptoDomain.Key) (string, error)
}

// KeyEncoder converts data keys to and from their stored form.
type KeyEncoder interface {
	Encode(key cryptoDomain.Key) (string, error)
	Decode(stored string) (cryptoDomain.Key, error)
}
