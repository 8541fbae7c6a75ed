// Package domain defines the encrypted asset record and the upload rules applied to it.
package domain

import (
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/legacyvault/internal/errors"
)

// DefaultContentType is used when neither the client nor the filename declare one.
const DefaultContentType = "application/octet-stream"

// DefaultFilename replaces an empty upload filename.
const DefaultFilename = "file"

// Metadata is stored as JSON next to the asset record.
type Metadata struct {
	OriginalName  string    `json:"original_name"`
	ContentType   string    `json:"content_type"`
	FileSize      int64     `json:"file_size"`
	UploadDate    time.Time `json:"upload_date"`
	FileExtension string    `json:"file_extension"`
}

// Asset is an uploaded file. FilePath is the blob storage key of the ciphertext and
// EncryptionKey is the printable form of the key it was sealed with.
type Asset struct {
	ID             int64
	OwnerID        int64
	Title          string
	Description    *string
	FilePath       string
	AssetType      string
	BlockchainHash *string
	Metadata       Metadata
	EncryptionKey  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UploadPolicy bounds what Upload accepts.
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

// CheckSize returns ErrFileTooLarge when size exceeds MaxSize. A zero MaxSize disables the check.
func (p UploadPolicy) CheckSize(size int64) error {
	if p.MaxSize > 0 && size > p.MaxSize {
		return ErrFileTooLarge
	}
	return nil
}

// CheckType returns ErrFileTypeNotAllowed unless contentType matches one of
// AllowedTypes. Patterns are exact MIME types or "type/*". An empty list allows everything.
func (p UploadPolicy) CheckType(contentType string) error {
	if len(p.AllowedTypes) == 0 {
		return nil
	}

	mediaType := normalizeMediaType(contentType)
	for _, pattern := range p.AllowedTypes {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if strings.HasPrefix(mediaType, prefix+"/") {
				return nil
			}
			continue
		}
		if mediaType == pattern {
			return nil
		}
	}
	return ErrFileTypeNotAllowed
}

// ResolveContentType prefers the declared type, then the filename extension.
func ResolveContentType(declared, filename string) string {
	if mediaType := normalizeMediaType(declared); mediaType != "" {
		return mediaType
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return normalizeMediaType(byExt)
	}
	return DefaultContentType
}

// ResolveFilename strips any directory from filename and appends an extension
// guessed from contentType when the name has none.
func ResolveFilename(filename, contentType string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = DefaultFilename
	}
	if filepath.Ext(name) != "" {
		return name
	}

	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return name + exts[0]
	}
	return name
}

func normalizeMediaType(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// Domain-specific errors for asset operations.
var (
	// ErrAssetNotFound covers both a missing asset and one owned by someone else.
	ErrAssetNotFound = errors.Wrap(errors.ErrNotFound, "asset not found")

	// ErrFileTooLarge indicates the upload exceeds the configured size limit.
	ErrFileTooLarge = errors.Wrap(errors.ErrPayloadTooLarge, "file exceeds the maximum upload size")

	// ErrFileTypeNotAllowed indicates the content type is not in the allow list.
	ErrFileTypeNotAllowed = errors.Wrap(errors.ErrInvalidInput, "file type not allowed")

	// ErrAssetFileMissing indicates the record exists but its ciphertext blob does not.
	ErrAssetFileMissing = errors.Wrap(errors.ErrNotFound, "asset file not found")
)

// Download is a decrypted asset staged on local disk. The file at Path must be
// removed once the content has been served.
type Download struct {
	Asset       *Asset
	Path        string
	Filename    string
	ContentType string
	Size        int64
}
