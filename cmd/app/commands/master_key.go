package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

// KeyEnsurer loads or creates the master key file.
type KeyEnsurer interface {
	Path() string
	EnsureKey(ctx context.Context) (cryptoDomain.Key, error)
}

// RunCreateMasterKey makes sure the key store file exists and prints its location.
// Running it again reuses the existing key. The key itself is never printed.
func RunCreateMasterKey(ctx context.Context, store KeyEnsurer, logger *slog.Logger, w io.Writer, format string) error {
	if _, err := store.EnsureKey(ctx); err != nil {
		return fmt.Errorf("failed to ensure master key: %w", err)
	}

	logger.Info("master key ready", slog.String("path", store.Path()))

	return writeOutput(w, format, map[string]string{"key_store_path": store.Path()}, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Master key ready at %s\n", store.Path())
		_, _ = fmt.Fprintln(w, "Back up this file: encrypted assets cannot be recovered without it.")
	})
}
