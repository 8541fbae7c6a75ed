// Package repository provides PostgreSQL and MySQL persistence for scheduled messages.
package repository

import (
	"database/sql"

	"github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/message/domain"
)

const messageColumns = `id, owner_id, recipient_address, message_content, delivery_date, is_delivered,
	encryption_key, blockchain_hash, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.ScheduledMessage, error) {
	var m domain.ScheduledMessage
	err := row.Scan(
		&m.ID, &m.OwnerID, &m.RecipientAddress, &m.EncryptedContent, &m.DeliveryDate, &m.IsDelivered,
		&m.EncryptionKey, &m.BlockchainHash, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collect(rows *sql.Rows) ([]*domain.ScheduledMessage, error) {
	messages := make([]*domain.ScheduledMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan scheduled message")
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate scheduled messages")
	}
	return messages, nil
}
