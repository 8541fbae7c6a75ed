// Package keystore holds the per-installation master key.
//
// The key lives in a single file created once with 0600 permissions. When a
// KMS keeper is configured the file holds the keeper's ciphertext instead of
// the raw key. An existing file is never regenerated: if it cannot be read or
// parsed, EnsureKey fails and the caller must treat it as fatal.
package keystore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
	cryptoService "github.com/allisson/legacyvault/internal/crypto/service"
)

const kmsPrefix = "kms:"

// ErrCorruptKeyFile indicates an existing key file that cannot be used.
var ErrCorruptKeyFile = errors.New("corrupt key store file")

// KeyGenerator produces fresh key material.
type KeyGenerator interface {
	GenerateKey() (cryptoDomain.Key, error)
}

// Store loads or creates the master key file at path.
type Store struct {
	path      string
	generator KeyGenerator
	keeper    cryptoService.KMSKeeper
	logger    *slog.Logger

	mu  sync.Mutex
	key cryptoDomain.Key
}

// Option configures a Store.
type Option func(*Store)

// WithKeeper protects the key file with a KMS keeper.
func WithKeeper(keeper cryptoService.KMSKeeper) Option {
	return func(s *Store) {
		s.keeper = keeper
	}
}

// WithLogger sets the logger used to report key creation.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store for path.
func New(path string, generator KeyGenerator, opts ...Option) *Store {
	s := &Store{
		path:      path,
		generator: generator,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the key file location.
func (s *Store) Path() string {
	return s.path
}

// EnsureKey returns the master key, generating and persisting it on first use.
// Later calls, including from other Store instances on the same path, return
// the same key.
func (s *Store) EnsureKey(ctx context.Context) (cryptoDomain.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	key, err := s.load(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		key, err = s.create(ctx)
		if errors.Is(err, fs.ErrExist) {
			// Another process created it first.
			key, err = s.load(ctx)
		}
	}
	if err != nil {
		return nil, err
	}

	s.key = key
	return key, nil
}

func (s *Store) load(ctx context.Context) (cryptoDomain.Key, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptKeyFile, s.path, err)
	}

	content := strings.TrimSpace(string(data))

	if sealed, ok := strings.CutPrefix(content, kmsPrefix); ok {
		if s.keeper == nil {
			return nil, fmt.Errorf("%w: %s is KMS protected but no KMS key is configured", ErrCorruptKeyFile, s.path)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(sealed)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptKeyFile, s.path, err)
		}
		plaintext, err := s.keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: failed to unseal with KMS: %v", ErrCorruptKeyFile, s.path, err)
		}
		content = string(plaintext)
		cryptoDomain.Zero(plaintext)
	}

	key, err := cryptoDomain.DecodeKey(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptKeyFile, s.path, err)
	}
	return key, nil
}

func (s *Store) create(ctx context.Context) (cryptoDomain.Key, error) {
	key, err := s.generator.GenerateKey()
	if err != nil {
		return nil, err
	}

	content := key.Encode()
	if s.keeper != nil {
		ciphertext, err := s.keeper.Encrypt(ctx, []byte(content))
		if err != nil {
			return nil, fmt.Errorf("failed to seal master key with KMS: %w", err)
		}
		content = kmsPrefix + base64.StdEncoding.EncodeToString(ciphertext)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create key store directory: %w", err)
		}
	}

	if err := writeExclusive(s.path, content+"\n"); err != nil {
		return nil, err
	}

	s.logger.Info("master key created",
		slog.String("path", s.path),
		slog.Bool("kms_protected", s.keeper != nil),
	)
	return key, nil
}

// writeExclusive publishes content at path only if path does not exist yet.
// The file is fully written under a temporary name and then hard-linked into
// place, so readers never observe a partial key file.
func writeExclusive(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create key store file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write key store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync key store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close key store file: %w", err)
	}

	return os.Link(tmp.Name(), path)
}
