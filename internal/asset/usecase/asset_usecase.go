package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/legacyvault/internal/anchor"
	"github.com/allisson/legacyvault/internal/asset/domain"
	"github.com/allisson/legacyvault/internal/asset/storage"
	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
)

// AssetUseCase implements UseCase.
type AssetUseCase struct {
	txManager  database.TxManager
	users      UserLookup
	assetRepo  AssetRepository
	outboxRepo OutboxEventRepository
	cipher     FileCipher
	keys       KeyEncoder
	anchorer   anchor.Anchorer
	blobs      storage.BlobStorage
	policy     domain.UploadPolicy
	stagingDir string
	logger     *slog.Logger
	now        func() time.Time
}

// Config groups the AssetUseCase collaborators.
type Config struct {
	TxManager  database.TxManager
	Users      UserLookup
	AssetRepo  AssetRepository
	OutboxRepo OutboxEventRepository
	Cipher     FileCipher
	Keys       KeyEncoder
	Anchorer   anchor.Anchorer
	Blobs      storage.BlobStorage
	Policy     domain.UploadPolicy
	// StagingDir holds plaintext only for the duration of a request.
	StagingDir string
	Logger     *slog.Logger
}

// NewAssetUseCase creates an AssetUseCase and makes sure the staging directory exists.
func NewAssetUseCase(cfg Config) (*AssetUseCase, error) {
	if cfg.StagingDir == "" {
		cfg.StagingDir = os.TempDir()
	}
	if err := os.MkdirAll(cfg.StagingDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &AssetUseCase{
		txManager:  cfg.TxManager,
		users:      cfg.Users,
		assetRepo:  cfg.AssetRepo,
		outboxRepo: cfg.OutboxRepo,
		cipher:     cfg.Cipher,
		keys:       cfg.Keys,
		anchorer:   cfg.Anchorer,
		blobs:      cfg.Blobs,
		policy:     cfg.Policy,
		stagingDir: cfg.StagingDir,
		logger:     cfg.Logger,
		now:        time.Now,
	}, nil
}

func (uc *AssetUseCase) Upload(ctx context.Context, input UploadInput) (*domain.Asset, error) {
	if _, err := uc.users.GetByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}
	if err := uc.policy.CheckSize(input.Size); err != nil {
		return nil, err
	}

	contentType := domain.ResolveContentType(input.ContentType, input.Filename)
	if err := uc.policy.CheckType(contentType); err != nil {
		return nil, err
	}
	filename := domain.ResolveFilename(input.Filename, contentType)

	stagedPath, size, err := uc.stage(input.Content)
	if err != nil {
		return nil, err
	}
	defer uc.removeFile(stagedPath)

	digest, err := uc.anchorer.HashFile(stagedPath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash asset")
	}

	encryptedPath, key, err := uc.cipher.EncryptFile(stagedPath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt asset")
	}
	defer uc.removeFile(encryptedPath)
	defer cryptoDomain.Zero(key)

	storedKey, err := uc.keys.Encode(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode asset key")
	}

	objectKey := fmt.Sprintf("%d/%s%s", input.OwnerID, uuid.Must(uuid.NewV7()), cryptoDomain.EncryptedSuffix)
	if err := uc.putBlob(ctx, objectKey, encryptedPath); err != nil {
		return nil, err
	}

	title := filename
	if input.Title != nil && *input.Title != "" {
		title = *input.Title
	}

	asset := &domain.Asset{
		OwnerID:        input.OwnerID,
		Title:          title,
		Description:    input.Description,
		FilePath:       objectKey,
		AssetType:      contentType,
		BlockchainHash: uc.anchor(ctx, digest, input.OwnerID),
		EncryptionKey:  storedKey,
		Metadata: domain.Metadata{
			OriginalName:  filename,
			ContentType:   contentType,
			FileSize:      size,
			UploadDate:    uc.now().UTC(),
			FileExtension: filepath.Ext(filename),
		},
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.assetRepo.Create(ctx, asset); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(outboxDomain.EventAssetUploaded, map[string]interface{}{
			"asset_id":     asset.ID,
			"owner_id":     asset.OwnerID,
			"content_type": contentType,
			"file_size":    size,
			"anchored":     asset.BlockchainHash != nil,
		})
		if err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		if delErr := uc.blobs.Delete(context.WithoutCancel(ctx), objectKey); delErr != nil {
			uc.logger.ErrorContext(ctx, "failed to delete orphaned asset blob",
				slog.String("key", objectKey),
				slog.Any("error", delErr))
		}
		return nil, err
	}

	uc.logger.InfoContext(ctx, "asset uploaded",
		slog.Int64("asset_id", asset.ID),
		slog.Int64("owner_id", asset.OwnerID),
		slog.Int64("size", size))
	return asset, nil
}

func (uc *AssetUseCase) Download(ctx context.Context, assetID, ownerID int64) (*domain.Download, error) {
	asset, err := uc.assetRepo.GetByIDAndOwner(ctx, assetID, ownerID)
	if err != nil {
		return nil, err
	}

	key, err := uc.keys.Decode(asset.EncryptionKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode asset key")
	}
	defer cryptoDomain.Zero(key)

	blob, err := uc.blobs.Open(ctx, asset.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			uc.logger.ErrorContext(ctx, "asset blob missing",
				slog.Int64("asset_id", asset.ID),
				slog.String("key", asset.FilePath))
			return nil, domain.ErrAssetFileMissing
		}
		return nil, apperrors.Wrap(err, "failed to open asset blob")
	}
	defer func() {
		_ = blob.Close()
	}()

	contentType := asset.Metadata.ContentType
	if contentType == "" {
		contentType = domain.ResolveContentType(asset.AssetType, asset.Metadata.OriginalName)
	}
	filename := domain.ResolveFilename(asset.Metadata.OriginalName, contentType)

	plaintextPath, err := uc.cipher.DecryptToFile(blob, uc.stagingDir, filename, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt asset")
	}

	info, err := os.Stat(plaintextPath)
	if err != nil {
		uc.removeFile(plaintextPath)
		return nil, apperrors.Wrap(err, "failed to stat decrypted asset")
	}

	return &domain.Download{
		Asset:       asset,
		Path:        plaintextPath,
		Filename:    filename,
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

func (uc *AssetUseCase) List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Asset, error) {
	if _, err := uc.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return uc.assetRepo.ListByOwner(ctx, ownerID, offset, limit)
}

func (uc *AssetUseCase) Remove(download *domain.Download) error {
	if download == nil || download.Path == "" {
		return nil
	}
	if err := os.Remove(download.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(err, "failed to remove decrypted asset")
	}
	return nil
}

// stage copies content into a private file in the staging directory, enforcing
// the size limit on the bytes actually received.
func (uc *AssetUseCase) stage(content io.Reader) (string, int64, error) {
	f, err := os.CreateTemp(uc.stagingDir, "upload-*")
	if err != nil {
		return "", 0, apperrors.Wrap(err, "failed to create staging file")
	}

	src := content
	if uc.policy.MaxSize > 0 {
		src = io.LimitReader(content, uc.policy.MaxSize+1)
	}

	size, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		uc.removeFile(f.Name())
		return "", 0, apperrors.Wrap(copyErr, "failed to stage upload")
	case closeErr != nil:
		uc.removeFile(f.Name())
		return "", 0, apperrors.Wrap(closeErr, "failed to stage upload")
	}

	if err := uc.policy.CheckSize(size); err != nil {
		uc.removeFile(f.Name())
		return "", 0, err
	}
	return f.Name(), size, nil
}

func (uc *AssetUseCase) putBlob(ctx context.Context, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Wrap(err, "failed to open encrypted asset")
	}
	defer func() {
		_ = f.Close()
	}()

	if err := uc.blobs.Put(ctx, key, f); err != nil {
		return apperrors.Wrap(err, "failed to store encrypted asset")
	}
	return nil
}

// anchor returns nil when anchoring fails; the upload proceeds without a chain reference.
func (uc *AssetUseCase) anchor(ctx context.Context, digest string, ownerID int64) *string {
	ref, err := uc.anchorer.Anchor(ctx, digest, strconv.FormatInt(ownerID, 10))
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to anchor asset digest",
			slog.Int64("owner_id", ownerID),
			slog.Any("error", err))
		return nil
	}
	return &ref
}

func (uc *AssetUseCase) removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		uc.logger.Warn("failed to remove staged file", slog.String("path", path), slog.Any("error", err))
	}
}
