package service

import (
	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

type aeadFactory func(key []byte) (AEAD, error)

// AEADRegistry maps each supported algorithm to the constructor of its AEAD.
type AEADRegistry struct {
	factories map[cryptoDomain.Algorithm]aeadFactory
}

// NewAEADManager returns a registry with AES-256-GCM and ChaCha20-Poly1305.
func NewAEADManager() *AEADRegistry {
	return &AEADRegistry{
		factories: map[cryptoDomain.Algorithm]aeadFactory{
			cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
				c, err := NewAESGCM(key)
				if err != nil {
					return nil, err
				}
				return c, nil
			},
			cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
				c, err := NewChaCha20Poly1305(key)
				if err != nil {
					return nil, err
				}
				return c, nil
			},
		},
	}
}

// CreateCipher fails with ErrUnsupportedAlgorithm before looking at the key, then
// with ErrInvalidKeySize unless key is KeySize bytes.
func (r *AEADRegistry) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	factory, ok := r.factories[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return factory(key)
}
