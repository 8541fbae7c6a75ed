package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateOptions selects the schema change to apply. A zero Rollback applies
// every pending migration; a positive Rollback reverts that many.
type MigrateOptions struct {
	Driver           string
	ConnectionString string
	Rollback         int
}

func migrationsDir(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "file://migrations/postgresql", nil
	case "mysql":
		return "file://migrations/mysql", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// RunMigrations moves the schema as opts describes and logs the resulting version.
// Being already up to date is not an error.
func RunMigrations(logger *slog.Logger, opts MigrateOptions) error {
	if opts.Rollback < 0 {
		return fmt.Errorf("rollback steps must not be negative, got %d", opts.Rollback)
	}
	source, err := migrationsDir(opts.Driver)
	if err != nil {
		return err
	}

	m, err := migrate.New(source, opts.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if opts.Rollback > 0 {
		logger.Info("rolling back migrations", slog.String("driver", opts.Driver), slog.Int("steps", opts.Rollback))
		err = m.Steps(-opts.Rollback)
	} else {
		logger.Info("applying migrations", slog.String("driver", opts.Driver))
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("schema is empty")
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	default:
		logger.Info("schema is at version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}
