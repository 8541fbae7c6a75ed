// Package anchor is the blockchain anchoring stub. It hashes content with
// keccak-256 and returns the digest itself as the anchor value; nothing is
// submitted to a chain.
package anchor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrEmptyDigest is returned when anchoring an empty digest.
var ErrEmptyDigest = errors.New("empty digest")

// Anchorer is consumed by the asset pipeline, access rules and scheduled messages.
type Anchorer interface {
	Hash(content []byte) string
	HashFile(path string) (string, error)
	Anchor(ctx context.Context, digest, owner string) (string, error)
	ContractID(assetID int64, beneficiary string) string
}

// Stub implements Anchorer without any chain interaction.
type Stub struct {
	logger *slog.Logger
}

// NewStub creates a Stub.
func NewStub(logger *slog.Logger) *Stub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Stub{logger: logger}
}

// Hash returns the 0x-prefixed keccak-256 of content.
func (s *Stub) Hash(content []byte) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(content)
	return encode(h)
}

// HashFile streams the file at path through keccak-256.
func (s *Stub) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha3.NewLegacyKeccak256()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return encode(h), nil
}

// Anchor returns digest unchanged.
func (s *Stub) Anchor(ctx context.Context, digest, owner string) (string, error) {
	if strings.TrimSpace(digest) == "" {
		return "", ErrEmptyDigest
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.logger.DebugContext(ctx, "anchored digest",
		slog.String("digest", digest),
		slog.String("owner", owner),
	)
	return digest, nil
}

// ContractID returns the placeholder contract identifier for an access rule.
func (s *Stub) ContractID(assetID int64, beneficiary string) string {
	return fmt.Sprintf("contract_%d_%s", assetID, beneficiary)
}

func encode(h hash.Hash) string {
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
