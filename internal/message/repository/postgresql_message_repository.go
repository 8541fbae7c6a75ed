package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/legacyvault/internal/database"
	"github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/message/domain"
)

// PostgreSQLMessageRepository handles scheduled message persistence for PostgreSQL
type PostgreSQLMessageRepository struct {
	db *sql.DB
}

// NewPostgreSQLMessageRepository creates a new PostgreSQLMessageRepository
func NewPostgreSQLMessageRepository(db *sql.DB) *PostgreSQLMessageRepository {
	return &PostgreSQLMessageRepository{db: db}
}

func (r *PostgreSQLMessageRepository) Create(ctx context.Context, message *domain.ScheduledMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO scheduled_messages (owner_id, recipient_address, message_content, delivery_date,
			  is_delivered, encryption_key, blockchain_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := querier.QueryRowContext(ctx, query,
		message.OwnerID, message.RecipientAddress, message.EncryptedContent, message.DeliveryDate,
		message.IsDelivered, message.EncryptionKey, message.BlockchainHash,
	).Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to create scheduled message")
	}
	return nil
}

// ListByOwner returns the owner's messages ordered by delivery date.
func (r *PostgreSQLMessageRepository) ListByOwner(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.ScheduledMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + messageColumns + ` FROM scheduled_messages
			  WHERE owner_id = $1
			  ORDER BY delivery_date ASC, id ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list scheduled messages")
	}
	defer rows.Close() //nolint:errcheck

	return collect(rows)
}
