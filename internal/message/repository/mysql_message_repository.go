package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/legacyvault/internal/database"
	"github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/message/domain"
)

// MySQLMessageRepository handles scheduled message persistence for MySQL
type MySQLMessageRepository struct {
	db *sql.DB
}

// NewMySQLMessageRepository creates a new MySQLMessageRepository
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

func (r *MySQLMessageRepository) Create(ctx context.Context, message *domain.ScheduledMessage) error {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	query := `INSERT INTO scheduled_messages (owner_id, recipient_address, message_content, delivery_date,
			  is_delivered, encryption_key, blockchain_hash, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query,
		message.OwnerID, message.RecipientAddress, message.EncryptedContent, message.DeliveryDate,
		message.IsDelivered, message.EncryptionKey, message.BlockchainHash, now, now,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create scheduled message")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get scheduled message id")
	}

	message.ID = id
	message.CreatedAt = now
	message.UpdatedAt = now
	return nil
}

// ListByOwner returns the owner's messages ordered by delivery date.
func (r *MySQLMessageRepository) ListByOwner(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.ScheduledMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + messageColumns + ` FROM scheduled_messages
			  WHERE owner_id = ?
			  ORDER BY delivery_date ASC, id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list scheduled messages")
	}
	defer rows.Close() //nolint:errcheck

	return collect(rows)
}
