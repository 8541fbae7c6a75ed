package domain

import (
	"github.com/allisson/legacyvault/internal/errors"
)

var (
	// ErrUnsupportedAlgorithm indicates an unknown AEAD algorithm name or header id.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyEncoding indicates a persisted key that is not valid base64.
	ErrInvalidKeyEncoding = errors.New("invalid key encoding")

	// ErrInvalidKMSURI indicates a KMS key URI without a supported scheme.
	ErrInvalidKMSURI = errors.New("invalid KMS key URI")

	// ErrDecryptionFailed covers any integrity failure such as a wrong key or
	// tampered ciphertext. It maps to a 500 with no detail.
	ErrDecryptionFailed = errors.New("decryption failed")
)
