package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
	cryptoService "github.com/allisson/legacyvault/internal/crypto/service"
)

func TestRunGenerateKey(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cipher := cryptoService.NewChunkedCipher(cryptoService.NewAEADManager(), cryptoDomain.AESGCM)

		var out bytes.Buffer
		require.NoError(t, RunGenerateKey(cipher, &out, "text"))

		key, err := cryptoDomain.DecodeKey(strings.TrimSpace(out.String()))
		require.NoError(t, err)
		assert.Len(t, key, 32)
	})

	t.Run("json", func(t *testing.T) {
		generator := &fixedGenerator{key: bytes.Repeat([]byte{9}, 32)}

		var out bytes.Buffer
		require.NoError(t, RunGenerateKey(generator, &out, "json"))

		var result map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, generator.key.Encode(), result["key"])
	})

	t.Run("generator-error", func(t *testing.T) {
		err := RunGenerateKey(&fixedGenerator{err: errors.New("boom")}, &bytes.Buffer{}, "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate key")
	})
}
