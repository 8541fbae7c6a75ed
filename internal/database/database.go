// Package database opens the SQL pool and classifies driver errors for the
// PostgreSQL and MySQL backends.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const defaultPingTimeout = 10 * time.Second

// Config describes the connection pool.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration

	// PingTimeout bounds the startup ping. Zero means 10s.
	PingTimeout time.Duration
}

// Connect opens the pool for a postgres or mysql driver and pings it before
// returning. The pool is closed again when the ping fails.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Driver != DriverPostgres && cfg.Driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// IsUniqueViolation reports a duplicate key: SQLSTATE 23505 or MySQL 1062.
func IsUniqueViolation(err error) bool {
	return matchCode(err, "23505", 1062)
}

// IsForeignKeyViolation reports a missing parent row: SQLSTATE 23503 or MySQL 1452.
func IsForeignKeyViolation(err error) bool {
	return matchCode(err, "23503", 1452)
}

func matchCode(err error, pgCode pq.ErrorCode, mysqlNumber uint16) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgCode
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNumber
	}
	return false
}
