// Package service implements the symmetric cipher wrapper: AEAD primitives,
// the chunked stream format used for asset files and message bodies, and
// access to external KMS keepers.
package service

import (
	"context"
	"io"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

// AEAD is an authenticated cipher bound to one key.
type AEAD interface {
	// Encrypt seals plaintext with a fresh random nonce and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext produced by Encrypt with the same nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize is the length of the nonces produced by Encrypt.
	NonceSize() int

	// Overhead is the number of bytes Encrypt adds to the plaintext.
	Overhead() int
}

// AEADManager builds AEAD instances for a key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Cipher is the symmetric cipher wrapper used by the upload pipeline and the
// message scheduler. Every method that encrypts uses the chunked stream format.
type Cipher interface {
	// GenerateKey returns a fresh random key.
	GenerateKey() (cryptoDomain.Key, error)

	// EncryptFile encrypts plaintextPath under a freshly generated key into
	// plaintextPath + EncryptedSuffix and returns that path and the key.
	EncryptFile(plaintextPath string) (string, cryptoDomain.Key, error)

	// DecryptFile decrypts ciphertextPath into a new file next to it whose name
	// is derived by stripping EncryptedSuffix plus a random component.
	DecryptFile(ciphertextPath string, key cryptoDomain.Key) (string, error)

	// DecryptToFile decrypts src into a new unique file inside dir. The file only
	// exists on success.
	DecryptToFile(src io.Reader, dir, name string, key cryptoDomain.Key) (string, error)

	// EncryptStream and DecryptStream are the streaming primitives behind the file methods.
	EncryptStream(dst io.Writer, src io.Reader, key cryptoDomain.Key) error
	DecryptStream(dst io.Writer, src io.Reader, key cryptoDomain.Key) error

	// EncryptData and DecryptData apply the same format to in-memory buffers.
	EncryptData(plaintext []byte, key cryptoDomain.Key) ([]byte, error)
	DecryptData(ciphertext []byte, key cryptoDomain.Key) ([]byte, error)
}

// KMSKeeper is the subset of *secrets.Keeper used to protect the key store file.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
