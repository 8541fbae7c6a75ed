// Package domain defines scheduled messages: encrypted notes addressed to a
// wallet for a future date. Nothing dispatches them; IsDelivered stays false.
package domain

import (
	"time"

	"github.com/allisson/legacyvault/internal/errors"
)

// ScheduledMessage is an encrypted message body plus its delivery metadata.
type ScheduledMessage struct {
	ID               int64
	OwnerID          int64
	RecipientAddress string
	EncryptedContent []byte
	DeliveryDate     time.Time
	IsDelivered      bool
	EncryptionKey    string
	BlockchainHash   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Domain-specific errors for scheduled messages.
var (
	ErrInvalidRecipient     = errors.Wrap(errors.ErrInvalidInput, "recipient must be a wallet address")
	ErrDeliveryDateInPast   = errors.Wrap(errors.ErrInvalidInput, "delivery date must be in the future")
	ErrEmptyMessageContent  = errors.Wrap(errors.ErrInvalidInput, "message content must not be empty")
	ErrMessageContentTooBig = errors.Wrap(errors.ErrPayloadTooLarge, "message content is too large")
)

// MaxContentSize bounds the plaintext body.
const MaxContentSize = 64 << 10
