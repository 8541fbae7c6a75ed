// Package repository persists outbox events in PostgreSQL or MySQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/outbox/domain"
)

const eventColumns = "id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at"

// dialect holds what differs between the backends: placeholders and the id encoding.
type dialect struct {
	placeholder func(n int) string
	encodeID    func(id uuid.UUID) (any, error)
}

var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	encodeID:    func(id uuid.UUID) (any, error) { return id, nil },
}

// MySQL keeps ids in BINARY(16); uuid.UUID scans the raw 16 bytes back.
var mysqlDialect = dialect{
	placeholder: func(int) string { return "?" },
	encodeID:    func(id uuid.UUID) (any, error) { return id.MarshalBinary() },
}

// binds renders n placeholders starting at from, comma separated.
func (d dialect) binds(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.placeholder(from + i)
	}
	return strings.Join(parts, ", ")
}

type sqlOutboxRepository struct {
	db *sql.DB
	d  dialect
}

// Create inserts event using the transaction carried by ctx, if any.
func (r *sqlOutboxRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	id, err := r.d.encodeID(event.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode outbox event id")
	}

	query := `INSERT INTO outbox_events (` + eventColumns + `)
			  VALUES (` + r.d.binds(1, 7) + `, NOW(), NOW())`

	_, err = database.GetTx(ctx, r.db).ExecContext(ctx, query,
		id, event.EventType, event.Payload, event.Status, event.Retries, event.LastError, event.ProcessedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}
	return nil
}

// GetPendingEvents locks up to limit pending events in creation order. Rows
// held by another worker are skipped rather than waited on.
func (r *sqlOutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	query := `SELECT ` + eventColumns + `
			  FROM outbox_events
			  WHERE status = ` + r.d.placeholder(1) + `
			  ORDER BY created_at ASC, id ASC
			  LIMIT ` + r.d.placeholder(2) + `
			  FOR UPDATE SKIP LOCKED`

	rows, err := database.GetTx(ctx, r.db).QueryContext(ctx, query, domain.OutboxEventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query pending outbox events")
	}
	defer rows.Close() //nolint:errcheck

	events := make([]*domain.OutboxEvent, 0, limit)
	for rows.Next() {
		event := &domain.OutboxEvent{}
		if err := rows.Scan(&event.ID, &event.EventType, &event.Payload, &event.Status, &event.Retries,
			&event.LastError, &event.ProcessedAt, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan outbox event")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate outbox events")
	}
	return events, nil
}

// Update writes back the delivery state: status, retries, last error and processed_at.
func (r *sqlOutboxRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	id, err := r.d.encodeID(event.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode outbox event id")
	}

	p := r.d.placeholder
	query := `UPDATE outbox_events
			  SET status = ` + p(1) + `, retries = ` + p(2) + `, last_error = ` + p(3) + `,
			      processed_at = ` + p(4) + `, updated_at = NOW()
			  WHERE id = ` + p(5)

	_, err = database.GetTx(ctx, r.db).ExecContext(ctx, query,
		event.Status, event.Retries, event.LastError, event.ProcessedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox event")
	}
	return nil
}

// PostgreSQLOutboxEventRepository stores events with a native UUID id.
type PostgreSQLOutboxEventRepository struct {
	sqlOutboxRepository
}

func NewPostgreSQLOutboxEventRepository(db *sql.DB) *PostgreSQLOutboxEventRepository {
	return &PostgreSQLOutboxEventRepository{sqlOutboxRepository{db: db, d: postgresDialect}}
}

// MySQLOutboxEventRepository stores events with a BINARY(16) id.
type MySQLOutboxEventRepository struct {
	sqlOutboxRepository
}

func NewMySQLOutboxEventRepository(db *sql.DB) *MySQLOutboxEventRepository {
	return &MySQLOutboxEventRepository{sqlOutboxRepository{db: db, d: mysqlDialect}}
}
