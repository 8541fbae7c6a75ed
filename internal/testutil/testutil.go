// Package testutil provides shared test doubles and helpers.
//
// Repository tests use NewMockDB (go-sqlmock). Use case tests use MockTxManager,
// which runs the transaction body inline, and MockOutboxRepository to assert on
// emitted events.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
)

// NewMockDB returns a sqlmock-backed *sql.DB closed at test cleanup.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// MockTxManager runs fn inline unless WithTx is configured to return an error.
type MockTxManager struct {
	mock.Mock
}

// NewMockTxManager returns a MockTxManager that accepts any number of transactions.
func NewMockTxManager() *MockTxManager {
	m := &MockTxManager{}
	m.On("WithTx", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockOutboxRepository records created events.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// EventOfType matches an outbox event argument by type.
func EventOfType(eventType string) any {
	return mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
		return e != nil && e.EventType == eventType && e.Status == outboxDomain.OutboxEventStatusPending
	})
}

// MigrationsPath walks up from the working directory to migrations/<dbType>.
func MigrationsPath(dbType string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		migrationsPath := filepath.Join(dir, "migrations", dbType)
		if _, err := os.Stat(migrationsPath); err == nil {
			return migrationsPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("migrations directory not found for %s (started from %s)", dbType, dir)
		}
		dir = parent
	}
}
