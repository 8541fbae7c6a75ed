// Package usecase schedules encrypted messages and lists them for their owner.
package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/allisson/legacyvault/internal/anchor"
	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/message/domain"
	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// ScheduleInput describes a message to schedule.
type ScheduleInput struct {
	OwnerID          int64
	RecipientAddress string
	Content          string
	DeliveryDate     time.Time
}

// UseCase defines the interface for scheduled message operations.
type UseCase interface {
	// ResolveOwner accepts a numeric user id or a wallet address.
	ResolveOwner(ctx context.Context, ref string) (int64, error)
	Schedule(ctx context.Context, input ScheduleInput) (*domain.ScheduledMessage, error)
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.ScheduledMessage, error)
}

// MessageRepository interface defines scheduled message persistence.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.ScheduledMessage) error
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.ScheduledMessage, error)
}

// OutboxEventRepository records domain events in the caller's transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// UserLookup resolves message owners.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*userDomain.User, error)
	GetByWallet(ctx context.Context, wallet string) (*userDomain.User, error)
}

// DataCipher seals message bodies.
type DataCipher interface {
	GenerateKey() (cryptoDomain.Key, error)
	EncryptData(plaintext []byte, key cryptoDomain.Key) ([]byte, error)
}

// KeyEncoder converts data keys to their stored form.
type KeyEncoder interface {
	Encode(key cryptoDomain.Key) (string, error)
}

// MessageUseCase implements UseCase.
type MessageUseCase struct {
	txManager   database.TxManager
	users       UserLookup
	messageRepo MessageRepository
	outboxRepo  OutboxEventRepository
	cipher      DataCipher
	keys        KeyEncoder
	anchorer    anchor.Anchorer
	logger      *slog.Logger
	now         func() time.Time
}

// NewMessageUseCase creates a new MessageUseCase.
func NewMessageUseCase(
	txManager database.TxManager,
	users UserLookup,
	messageRepo MessageRepository,
	outboxRepo OutboxEventRepository,
	cipher DataCipher,
	keys KeyEncoder,
	anchorer anchor.Anchorer,
	logger *slog.Logger,
) *MessageUseCase {
	return &MessageUseCase{
		txManager:   txManager,
		users:       users,
		messageRepo: messageRepo,
		outboxRepo:  outboxRepo,
		cipher:      cipher,
		keys:        keys,
		anchorer:    anchorer,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *MessageUseCase) ResolveOwner(ctx context.Context, ref string) (int64, error) {
	ref = strings.TrimSpace(ref)

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		user, err := uc.users.GetByID(ctx, id)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	}

	if customValidation.IsWalletAddress(ref) {
		user, err := uc.users.GetByWallet(ctx, ref)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	}

	return 0, userDomain.ErrUserNotFound
}

func (uc *MessageUseCase) Schedule(ctx context.Context, input ScheduleInput) (*domain.ScheduledMessage, error) {
	if !customValidation.IsWalletAddress(input.RecipientAddress) {
		return nil, domain.ErrInvalidRecipient
	}
	if !input.DeliveryDate.After(uc.now()) {
		return nil, domain.ErrDeliveryDateInPast
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrEmptyMessageContent
	}
	if len(input.Content) > domain.MaxContentSize {
		return nil, domain.ErrMessageContentTooBig
	}

	if _, err := uc.users.GetByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	key, err := uc.cipher.GenerateKey()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate message key")
	}
	defer cryptoDomain.Zero(key)

	plaintext := []byte(input.Content)
	ciphertext, err := uc.cipher.EncryptData(plaintext, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt message")
	}

	storedKey, err := uc.keys.Encode(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode message key")
	}

	message := &domain.ScheduledMessage{
		OwnerID:          input.OwnerID,
		RecipientAddress: input.RecipientAddress,
		EncryptedContent: ciphertext,
		DeliveryDate:     input.DeliveryDate.UTC(),
		EncryptionKey:    storedKey,
		BlockchainHash:   uc.anchor(ctx, uc.anchorer.Hash(plaintext), input.OwnerID),
	}
	cryptoDomain.Zero(plaintext)

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.messageRepo.Create(ctx, message); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(outboxDomain.EventMessageScheduled, map[string]interface{}{
			"message_id":        message.ID,
			"owner_id":          message.OwnerID,
			"recipient_address": message.RecipientAddress,
			"delivery_date":     message.DeliveryDate,
		})
		if err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "message scheduled",
		slog.Int64("message_id", message.ID),
		slog.Int64("owner_id", message.OwnerID),
		slog.Time("delivery_date", message.DeliveryDate))
	return message, nil
}

func (uc *MessageUseCase) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.ScheduledMessage, error) {
	return uc.messageRepo.ListByOwner(ctx, ownerID, offset, limit)
}

// anchor returns nil when anchoring fails.
func (uc *MessageUseCase) anchor(ctx context.Context, digest string, ownerID int64) *string {
	ref, err := uc.anchorer.Anchor(ctx, digest, strconv.FormatInt(ownerID, 10))
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to anchor message digest",
			slog.Int64("owner_id", ownerID),
			slog.Any("error", err))
		return nil
	}
	return &ref
}
