package service

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

// Stream layout:
//
//	header: "LVC1" | algorithm id (1 byte) | chunk size (uint32 BE)
//	frame:  sealed length (uint32 BE) | nonce | ciphertext+tag
//
// Each frame seals at most chunk size bytes of plaintext. The AAD of frame i is
// i (uint64 BE) followed by a final flag byte, so reordered, dropped or appended
// frames fail authentication. Empty input still yields one empty final frame.
const (
	streamMagic    = "LVC1"
	headerSize     = len(streamMagic) + 1 + 4
	frameLenSize   = 4
	maxChunkSize   = 16 << 20
	fallbackPrefix = "plaintext"
)

// ChunkedCipher implements Cipher with independently sealed fixed-size chunks,
// keeping memory bounded regardless of file size.
type ChunkedCipher struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
	chunkSize   int
}

// Option configures a ChunkedCipher.
type Option func(*ChunkedCipher)

// WithChunkSize overrides the default 64 KiB chunk size.
func WithChunkSize(size int) Option {
	return func(c *ChunkedCipher) {
		if size > 0 && size <= maxChunkSize {
			c.chunkSize = size
		}
	}
}

// NewChunkedCipher creates a cipher that seals new data with alg. Decryption
// reads the algorithm and chunk size from the stream header.
func NewChunkedCipher(aeadManager AEADManager, alg cryptoDomain.Algorithm, opts ...Option) *ChunkedCipher {
	c := &ChunkedCipher{
		aeadManager: aeadManager,
		algorithm:   alg,
		chunkSize:   cryptoDomain.ChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateKey returns KeySize bytes from crypto/rand.
func (c *ChunkedCipher) GenerateKey() (cryptoDomain.Key, error) {
	key := make(cryptoDomain.Key, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// EncryptFile encrypts plaintextPath under a new key into plaintextPath + EncryptedSuffix.
// A partially written ciphertext file is removed on failure.
func (c *ChunkedCipher) EncryptFile(plaintextPath string) (string, cryptoDomain.Key, error) {
	key, err := c.GenerateKey()
	if err != nil {
		return "", nil, err
	}

	src, err := os.Open(plaintextPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open plaintext file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	ciphertextPath := plaintextPath + cryptoDomain.EncryptedSuffix
	dst, err := os.OpenFile(ciphertextPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create ciphertext file: %w", err)
	}

	if err := c.EncryptStream(dst, src, key); err != nil {
		_ = dst.Close()
		_ = os.Remove(ciphertextPath)
		return "", nil, err
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(ciphertextPath)
		return "", nil, fmt.Errorf("failed to close ciphertext file: %w", err)
	}

	return ciphertextPath, key, nil
}

// DecryptFile decrypts ciphertextPath into a unique file in the same directory.
func (c *ChunkedCipher) DecryptFile(ciphertextPath string, key cryptoDomain.Key) (string, error) {
	src, err := os.Open(ciphertextPath)
	if err != nil {
		return "", fmt.Errorf("failed to open ciphertext file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	name := strings.TrimSuffix(filepath.Base(ciphertextPath), cryptoDomain.EncryptedSuffix)
	return c.DecryptToFile(src, filepath.Dir(ciphertextPath), name, key)
}

// DecryptToFile decrypts src into a new file created in dir from a pattern based
// on name. If any chunk fails, the file is removed and no path is returned.
func (c *ChunkedCipher) DecryptToFile(
	src io.Reader,
	dir, name string,
	key cryptoDomain.Key,
) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	ext := filepath.Ext(name)
	prefix := strings.TrimSuffix(name, ext)
	if prefix == "" {
		prefix = fallbackPrefix
	}

	out, err := os.CreateTemp(dir, prefix+"-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create plaintext file: %w", err)
	}

	if err := c.DecryptStream(out, src, key); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", err
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to close plaintext file: %w", err)
	}

	return out.Name(), nil
}

// EncryptData encrypts a small in-memory buffer.
func (c *ChunkedCipher) EncryptData(plaintext []byte, key cryptoDomain.Key) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncryptStream(&buf, bytes.NewReader(plaintext), key); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecryptData decrypts a buffer produced by EncryptData. It never returns partial plaintext.
func (c *ChunkedCipher) DecryptData(ciphertext []byte, key cryptoDomain.Key) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.DecryptStream(&buf, bytes.NewReader(ciphertext), key); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncryptStream writes the header followed by one frame per chunk of src.
func (c *ChunkedCipher) EncryptStream(dst io.Writer, src io.Reader, key cryptoDomain.Key) error {
	aead, err := c.aeadManager.CreateCipher(key, c.algorithm)
	if err != nil {
		return err
	}

	algID, err := c.algorithm.ID()
	if err != nil {
		return err
	}

	header := make([]byte, headerSize)
	copy(header, streamMagic)
	header[len(streamMagic)] = algID
	binary.BigEndian.PutUint32(header[len(streamMagic)+1:], uint32(c.chunkSize))
	if _, err := dst.Write(header); err != nil {
		return fmt.Errorf("failed to write stream header: %w", err)
	}

	reader := bufio.NewReaderSize(src, c.chunkSize)
	chunk := make([]byte, c.chunkSize)
	defer cryptoDomain.Zero(chunk)

	for index := uint64(0); ; index++ {
		n, readErr := io.ReadFull(reader, chunk)
		if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
			return fmt.Errorf("failed to read plaintext: %w", readErr)
		}

		final := readErr != nil
		if !final {
			if _, peekErr := reader.Peek(1); errors.Is(peekErr, io.EOF) {
				final = true
			} else if peekErr != nil {
				return fmt.Errorf("failed to read plaintext: %w", peekErr)
			}
		}

		if err := writeFrame(dst, aead, chunk[:n], index, final); err != nil {
			return err
		}
		if final {
			return nil
		}
	}
}

// DecryptStream verifies and decrypts every frame of src in order, writing
// plaintext to dst. Integrity failures return ErrDecryptionFailed; plaintext
// already written to dst must be discarded by the caller (DecryptToFile does).
func (c *ChunkedCipher) DecryptStream(dst io.Writer, src io.Reader, key cryptoDomain.Key) error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(src, header); err != nil {
		return readFailure(err, "truncated stream header")
	}
	if string(header[:len(streamMagic)]) != streamMagic {
		return integrityFailure("unknown stream format")
	}

	alg, err := cryptoDomain.AlgorithmFromID(header[len(streamMagic)])
	if err != nil {
		return integrityFailure("unknown algorithm")
	}

	chunkSize := int(binary.BigEndian.Uint32(header[len(streamMagic)+1:]))
	if chunkSize <= 0 || chunkSize > maxChunkSize {
		return integrityFailure("invalid chunk size")
	}

	aead, err := c.aeadManager.CreateCipher(key, alg)
	if err != nil {
		return err
	}

	nonceSize := aead.NonceSize()
	minFrame := nonceSize + aead.Overhead()
	maxFrame := minFrame + chunkSize

	reader := bufio.NewReader(src)
	lenBuf := make([]byte, frameLenSize)
	frame := make([]byte, maxFrame)

	for index := uint64(0); ; index++ {
		if _, err := io.ReadFull(reader, lenBuf); err != nil {
			return readFailure(err, "missing final chunk")
		}

		frameLen := int(binary.BigEndian.Uint32(lenBuf))
		if frameLen < minFrame || frameLen > maxFrame {
			return integrityFailure("invalid chunk length")
		}

		if _, err := io.ReadFull(reader, frame[:frameLen]); err != nil {
			return readFailure(err, "truncated chunk")
		}

		_, peekErr := reader.Peek(1)
		final := errors.Is(peekErr, io.EOF)
		if peekErr != nil && !final {
			return fmt.Errorf("failed to read ciphertext: %w", peekErr)
		}

		plaintext, err := aead.Decrypt(frame[nonceSize:frameLen], frame[:nonceSize], chunkAAD(index, final))
		if err != nil {
			return integrityFailure(fmt.Sprintf("chunk %d failed authentication", index))
		}
		if !final && len(plaintext) != chunkSize {
			cryptoDomain.Zero(plaintext)
			return integrityFailure("short intermediate chunk")
		}

		_, writeErr := dst.Write(plaintext)
		cryptoDomain.Zero(plaintext)
		if writeErr != nil {
			return fmt.Errorf("failed to write plaintext: %w", writeErr)
		}

		if final {
			return nil
		}
	}
}

func writeFrame(dst io.Writer, aead AEAD, plaintext []byte, index uint64, final bool) error {
	ciphertext, nonce, err := aead.Encrypt(plaintext, chunkAAD(index, final))
	if err != nil {
		return fmt.Errorf("failed to encrypt chunk %d: %w", index, err)
	}

	frame := make([]byte, 0, frameLenSize+len(nonce)+len(ciphertext))
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(nonce)+len(ciphertext)))
	frame = append(frame, nonce...)
	frame = append(frame, ciphertext...)

	if _, err := dst.Write(frame); err != nil {
		return fmt.Errorf("failed to write chunk %d: %w", index, err)
	}
	return nil
}

func chunkAAD(index uint64, final bool) []byte {
	aad := binary.BigEndian.AppendUint64(make([]byte, 0, 9), index)
	if final {
		return append(aad, 1)
	}
	return append(aad, 0)
}

func integrityFailure(reason string) error {
	return fmt.Errorf("%w: %s", cryptoDomain.ErrDecryptionFailed, reason)
}

// readFailure treats a short read as tampering and anything else as an I/O error.
func readFailure(err error, reason string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return integrityFailure(reason)
	}
	return fmt.Errorf("failed to read ciphertext: %w", err)
}
