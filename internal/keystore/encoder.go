package keystore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

const wrappedPrefix = "wrapped:"

// ErrMasterKeyUnavailable indicates a wrapped record key with no master key to open it.
var ErrMasterKeyUnavailable = errors.New("master key unavailable")

// DataCipher seals small buffers.
type DataCipher interface {
	EncryptData(plaintext []byte, key cryptoDomain.Key) ([]byte, error)
	DecryptData(ciphertext []byte, key cryptoDomain.Key) ([]byte, error)
}

// KeyEncoder converts per-record keys to and from the printable form stored in
// the database. Plain keys are stored as base64; wrapped keys as
// "wrapped:" + base64 of the key sealed under the master key.
type KeyEncoder struct {
	cipher DataCipher
	master cryptoDomain.Key
	wrap   bool
}

// NewKeyEncoder creates a KeyEncoder. master may be nil when wrap is false and
// no wrapped keys need to be read.
func NewKeyEncoder(cipher DataCipher, master cryptoDomain.Key, wrap bool) *KeyEncoder {
	return &KeyEncoder{cipher: cipher, master: master, wrap: wrap}
}

// Encode returns the stored form of key.
func (e *KeyEncoder) Encode(key cryptoDomain.Key) (string, error) {
	if !e.wrap {
		return key.Encode(), nil
	}
	if e.master == nil {
		return "", ErrMasterKeyUnavailable
	}

	sealed, err := e.cipher.EncryptData(key, e.master)
	if err != nil {
		return "", fmt.Errorf("failed to wrap key: %w", err)
	}
	return wrappedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode parses either stored form regardless of the current wrap setting.
func (e *KeyEncoder) Decode(stored string) (cryptoDomain.Key, error) {
	sealedB64, ok := strings.CutPrefix(stored, wrappedPrefix)
	if !ok {
		return cryptoDomain.DecodeKey(stored)
	}
	if e.master == nil {
		return nil, ErrMasterKeyUnavailable
	}

	sealed, err := base64.StdEncoding.DecodeString(sealedB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeyEncoding, err)
	}

	raw, err := e.cipher.DecryptData(sealed, e.master)
	if err != nil {
		return nil, err
	}
	if len(raw) != cryptoDomain.KeySize {
		cryptoDomain.Zero(raw)
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return cryptoDomain.Key(raw), nil
}
