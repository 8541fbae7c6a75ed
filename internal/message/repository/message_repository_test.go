package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/legacyvault/internal/message/domain"
	"github.com/allisson/legacyvault/internal/testutil"
)

const recipient = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"

var columns = []string{
	"id", "owner_id", "recipient_address", "message_content", "delivery_date", "is_delivered",
	"encryption_key", "blockchain_hash", "created_at", "updated_at",
}

func newMessage(delivery time.Time) *domain.ScheduledMessage {
	return &domain.ScheduledMessage{
		OwnerID:          1,
		RecipientAddress: recipient,
		EncryptedContent: []byte{0x4c, 0x56, 0x43, 0x31},
		DeliveryDate:     delivery,
		EncryptionKey:    "wrapped:abc",
	}
}

func TestPostgreSQLMessageRepository_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewPostgreSQLMessageRepository(db)
	now := time.Now().UTC()
	delivery := now.Add(24 * time.Hour)
	message := newMessage(delivery)

	mock.ExpectQuery(`INSERT INTO scheduled_messages (.+) RETURNING id, created_at, updated_at`).
		WithArgs(int64(1), recipient, []byte{0x4c, 0x56, 0x43, 0x31}, delivery, false, "wrapped:abc", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(8), now, now))

	require.NoError(t, repo.Create(context.Background(), message))
	assert.Equal(t, int64(8), message.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLMessageRepository_ListByOwner(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewPostgreSQLMessageRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM scheduled_messages\s+WHERE owner_id = \$1\s+ORDER BY delivery_date ASC, id ASC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(1), 50, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(8), int64(1), recipient, []byte("ct"), now, false, "k", "0xabc", now, now))

	messages, err := repo.ListByOwner(context.Background(), 1, 0, 50)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, recipient, messages[0].RecipientAddress)
	assert.False(t, messages[0].IsDelivered)
	assert.Equal(t, "0xabc", *messages[0].BlockchainHash)
}

func TestPostgreSQLMessageRepository_ListByOwnerError(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewPostgreSQLMessageRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM scheduled_messages`).WillReturnError(errors.New("timeout"))

	_, err := repo.ListByOwner(context.Background(), 1, 0, 50)
	assert.ErrorContains(t, err, "failed to list scheduled messages")
}

func TestMySQLMessageRepository_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLMessageRepository(db)
	delivery := time.Now().Add(time.Hour).UTC()
	message := newMessage(delivery)

	mock.ExpectExec(`INSERT INTO scheduled_messages`).
		WithArgs(int64(1), recipient, sqlmock.AnyArg(), delivery, false, "wrapped:abc", nil,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))

	require.NoError(t, repo.Create(context.Background(), message))
	assert.Equal(t, int64(12), message.ID)
}

func TestMySQLMessageRepository_ListByOwner(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLMessageRepository(db)

	mock.ExpectQuery(`WHERE owner_id = \?`).
		WithArgs(int64(1), 5, 10).
		WillReturnRows(sqlmock.NewRows(columns))

	messages, err := repo.ListByOwner(context.Background(), 1, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
