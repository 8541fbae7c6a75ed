package commands

import (
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

// KeyGenerator produces random key material.
type KeyGenerator interface {
	GenerateKey() (cryptoDomain.Key, error)
}

// RunGenerateKey prints a fresh base64 encoded 32-byte key, suitable for
// JWT_SECRET_KEY or a base64key:// KMS_KEY_URI.
func RunGenerateKey(generator KeyGenerator, w io.Writer, format string) error {
	key, err := generator.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	encoded := key.Encode()
	return writeOutput(w, format, map[string]string{"key": encoded}, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, encoded)
	})
}
