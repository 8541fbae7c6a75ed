package service

import (
	"bytes"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

var _ Cipher = (*ChunkedCipher)(nil)

const testChunkSize = 16

// frameSize is the on-disk size of one full frame with testChunkSize and a 12-byte nonce.
const frameSize = frameLenSize + 12 + testChunkSize + 16

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func newTestCipher(alg cryptoDomain.Algorithm, opts ...Option) *ChunkedCipher {
	return NewChunkedCipher(NewAEADManager(), alg, opts...)
}

func TestChunkedCipher_GenerateKey(t *testing.T) {
	c := newTestCipher(cryptoDomain.AESGCM)

	k1, err := c.GenerateKey()
	require.NoError(t, err)
	k2, err := c.GenerateKey()
	require.NoError(t, err)

	assert.Len(t, k1, cryptoDomain.KeySize)
	assert.NotEqual(t, k1, k2)
}

func TestChunkedCipher_DataRoundTripSizes(t *testing.T) {
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		c := newTestCipher(alg, WithChunkSize(testChunkSize))
		key, err := c.GenerateKey()
		require.NoError(t, err)

		sizes := []int{0, 1, testChunkSize - 1, testChunkSize, testChunkSize + 1, 4 * testChunkSize}
		for _, size := range sizes {
			plaintext := randomBytes(t, size)

			ciphertext, err := c.EncryptData(plaintext, key)
			require.NoError(t, err, "%s size %d", alg, size)

			decrypted, err := c.DecryptData(ciphertext, key)
			require.NoError(t, err, "%s size %d", alg, size)
			assert.Len(t, decrypted, size)
			assert.True(t, bytes.Equal(plaintext, decrypted), "%s size %d", alg, size)
		}
	}
}

func TestChunkedCipher_DefaultChunkSizeBoundaries(t *testing.T) {
	c := newTestCipher(cryptoDomain.AESGCM)
	key, err := c.GenerateKey()
	require.NoError(t, err)

	cs := cryptoDomain.ChunkSize
	for _, size := range []int{0, 1, cs - 1, cs, cs + 1, 3 * cs} {
		plaintext := randomBytes(t, size)

		ciphertext, err := c.EncryptData(plaintext, key)
		require.NoError(t, err)

		decrypted, err := c.DecryptData(ciphertext, key)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decrypted), "size %d", size)
	}
}

func TestChunkedCipher_WrongKeyFails(t *testing.T) {
	c := newTestCipher(cryptoDomain.AESGCM, WithChunkSize(testChunkSize))
	k1, err := c.GenerateKey()
	require.NoError(t, err)
	k2, err := c.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := c.EncryptData([]byte("beneficiary instructions"), k1)
	require.NoError(t, err)

	plaintext, err := c.DecryptData(ciphertext, k2)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Nil(t, plaintext)
}

func TestChunkedCipher_InvalidKeySize(t *testing.T) {
	c := newTestCipher(cryptoDomain.AESGCM)

	_, err := c.EncryptData([]byte("x"), cryptoDomain.Key("short"))
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
}

func TestChunkedCipher_HeaderIsSelfDescribing(t *testing.T) {
	chacha := newTestCipher(cryptoDomain.ChaCha20, WithChunkSize(testChunkSize))
	aes := newTestCipher(cryptoDomain.AESGCM)
	key, err := chacha.GenerateKey()
	require.NoError(t, err)

	plaintext := randomBytes(t, 5*testChunkSize+3)
	ciphertext, err := chacha.EncryptData(plaintext, key)
	require.NoError(t, err)

	decrypted, err := aes.DecryptData(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestChunkedCipher_TamperingDetected(t *testing.T) {
	c := newTestCipher(cryptoDomain.AESGCM, WithChunkSize(testChunkSize))
	key, err := c.GenerateKey()
	require.NoError(t, err)

	// Three full frames.
	ciphertext, err := c.EncryptData(randomBytes(t, 3*testChunkSize), key)
	require.NoError(t, err)
	require.Len(t, ciphertext, headerSize+3*frameSize)

	frame := func(i int) []byte {
		start := headerSize + i*frameSize
		return ciphertext[start : start+frameSize]
	}

	tests := []struct {
		name    string
		mutated func() []byte
	}{
		{
			name: "truncated at chunk boundary",
			mutated: func() []byte {
				return append([]byte(nil), ciphertext[:headerSize+2*frameSize]...)
			},
		},
		{
			name: "truncated inside chunk",
			mutated: func() []byte {
				return append([]byte(nil), ciphertext[:len(ciphertext)-5]...)
			},
		},
		{
			name: "chunks reordered",
			mutated: func() []byte {
				out := append([]byte(nil), ciphertext[:headerSize]...)
				out = append(out, frame(1)...)
				out = append(out, frame(0)...)
				return append(out, frame(2)...)
			},
		},
		{
			name: "data appended after final chunk",
			mutated: func() []byte {
				return append(append([]byte(nil), ciphertext...), frame(1)...)
			},
		},
		{
			name: "bit flip in ciphertext",
			mutated: func() []byte {
				out := append([]byte(nil), ciphertext...)
				out[headerSize+frameSize+20] ^= 0x01
				return out
			},
		},
		{
			name: "bad magic",
			mutated: func() []byte {
				out := append([]byte(nil), ciphertext...)
				out[0] = 'X'
				return out
			},
		},
		{
			name: "unknown algorithm id",
			mutated: func() []byte {
				out := append([]byte(nil), ciphertext...)
				out[len(streamMagic)] = 0x7F
				return out
			},
		},
		{
			name: "oversized frame length",
			mutated: func() []byte {
				out := append([]byte(nil), ciphertext...)
				out[headerSize] = 0xFF
				return out
			},
		},
		{
			name:    "header only",
			mutated: func() []byte { return append([]byte(nil), ciphertext[:headerSize]...) },
		},
		{
			name:    "empty input",
			mutated: func() []byte { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext, err := c.DecryptData(tt.mutated(), key)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			assert.Nil(t, plaintext)
		})
	}
}

func TestChunkedCipher_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := newTestCipher(cryptoDomain.AESGCM, WithChunkSize(testChunkSize))

	plaintext := randomBytes(t, 10*testChunkSize+7)
	plaintextPath := filepath.Join(dir, "letter.txt")
	require.NoError(t, os.WriteFile(plaintextPath, plaintext, 0o600))

	ciphertextPath, key, err := c.EncryptFile(plaintextPath)
	require.NoError(t, err)
	assert.Equal(t, plaintextPath+cryptoDomain.EncryptedSuffix, ciphertextPath)

	stored, err := os.ReadFile(ciphertextPath)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(stored, plaintext[:testChunkSize]))

	decryptedPath, err := c.DecryptFile(ciphertextPath, key)
	require.NoError(t, err)
	defer func() { _ = os.Remove(decryptedPath) }()

	assert.Equal(t, dir, filepath.Dir(decryptedPath))
	assert.True(t, strings.HasPrefix(filepath.Base(decryptedPath), "letter-"))
	assert.Equal(t, ".txt", filepath.Ext(decryptedPath))

	decrypted, err := os.ReadFile(decryptedPath)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestChunkedCipher_EncryptFileMissingSource(t *testing.T) {
	c := newTestCipher(cryptoDomain.AESGCM)

	_, _, err := c.EncryptFile(filepath.Join(t.TempDir(), "missing.bin"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, cryptoDomain.ErrDecryptionFailed))
}

func TestChunkedCipher_DecryptFileFailureLeavesNoPlaintext(t *testing.T) {
	dir := t.TempDir()
	c := newTestCipher(cryptoDomain.AESGCM, WithChunkSize(testChunkSize))

	plaintextPath := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(plaintextPath, randomBytes(t, 5*testChunkSize), 0o600))
	ciphertextPath, _, err := c.EncryptFile(plaintextPath)
	require.NoError(t, err)
	require.NoError(t, os.Remove(plaintextPath))

	wrongKey, err := c.GenerateKey()
	require.NoError(t, err)

	decryptedPath, err := c.DecryptFile(ciphertextPath, wrongKey)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Empty(t, decryptedPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(ciphertextPath), entries[0].Name())
}

func TestChunkedCipher_ConcurrentDecryptUsesUniquePaths(t *testing.T) {
	dir := t.TempDir()
	c := newTestCipher(cryptoDomain.AESGCM, WithChunkSize(testChunkSize))

	plaintextPath := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(plaintextPath, randomBytes(t, 100), 0o600))
	ciphertextPath, key, err := c.EncryptFile(plaintextPath)
	require.NoError(t, err)

	const workers = 8
	paths := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path, err := c.DecryptFile(ciphertextPath, key)
			assert.NoError(t, err)
			paths[i] = path
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, path := range paths {
		assert.False(t, seen[path], "duplicate path %s", path)
		seen[path] = true
		assert.NotEqual(t, plaintextPath, path)
	}
}

func TestChunkedCipher_DecryptToFileFallbackName(t *testing.T) {
	c := newTestCipher(cryptoDomain.AESGCM)
	key, err := c.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := c.EncryptData([]byte("hello"), key)
	require.NoError(t, err)

	path, err := c.DecryptToFile(bytes.NewReader(ciphertext), t.TempDir(), "", key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), fallbackPrefix+"-"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}
