package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

func localSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("local secrets round trip", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, localSecretsURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, keeper.Close()) }()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok)

		ciphertext, err := keeper.Encrypt(ctx, []byte("master key material"))
		require.NoError(t, err)

		plaintext, err := keeper.Decrypt(ctx, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, []byte("master key material"), plaintext)
	})

	t.Run("invalid uri", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.ErrorContains(t, err, "failed to open KMS keeper")
		assert.Nil(t, keeper)
	})

	t.Run("missing scheme", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "just-a-key")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKMSURI)
		assert.ErrorContains(t, err, "missing scheme")
		assert.Nil(t, keeper)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "mem://keeper")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKMSURI)
		assert.ErrorContains(t, err, `unsupported scheme "mem"`)
		assert.Nil(t, keeper)
	})
}
