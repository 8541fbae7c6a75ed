// Package storage provides the blob stores that hold asset ciphertext: a local
// directory and an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrObjectNotFound indicates no blob exists under the key.
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidKey indicates a key that is empty, absolute or escapes the store root.
	ErrInvalidKey = errors.New("invalid object key")
)

// BlobStorage stores opaque ciphertext blobs under slash-separated keys.
type BlobStorage interface {
	// Put stores the content of src under key, replacing any existing blob.
	Put(ctx context.Context, key string, src io.Reader) error

	// Open returns a reader for the blob. Returns ErrObjectNotFound for a missing key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// cleanKey rejects keys that would resolve outside the store root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
