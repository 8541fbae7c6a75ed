// Package domain holds the cipher vocabulary shared by the chunked file cipher,
// the key store and every module that persists encrypted data.
package domain

import "fmt"

// Algorithm identifies an AEAD construction.
//
// Both supported algorithms take a 32-byte key, a 12-byte nonce and append a
// 16-byte authentication tag.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred where AES has no hardware support.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the length in bytes of every symmetric key.
	KeySize = 32

	// ChunkSize is the plaintext size of each independently sealed chunk.
	ChunkSize = 64 * 1024

	// EncryptedSuffix marks ciphertext artifacts on disk.
	EncryptedSuffix = ".encrypted"
)

// algorithmIDs maps algorithms to the byte stored in the stream header.
var algorithmIDs = map[Algorithm]byte{
	AESGCM:   1,
	ChaCha20: 2,
}

// ID returns the header byte for the algorithm.
func (a Algorithm) ID() (byte, error) {
	id, ok := algorithmIDs[a]
	if !ok {
		return 0, ErrUnsupportedAlgorithm
	}
	return id, nil
}

// AlgorithmFromID resolves a header byte back to its algorithm.
func AlgorithmFromID(id byte) (Algorithm, error) {
	for alg, algID := range algorithmIDs {
		if algID == id {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: id %d", ErrUnsupportedAlgorithm, id)
}

// ParseAlgorithm validates a configured algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	alg := Algorithm(name)
	if _, ok := algorithmIDs[alg]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return alg, nil
}
