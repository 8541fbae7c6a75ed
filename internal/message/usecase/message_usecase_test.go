package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/legacyvault/internal/anchor"
	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
	cryptoService "github.com/allisson/legacyvault/internal/crypto/service"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/keystore"
	"github.com/allisson/legacyvault/internal/message/domain"
	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
	"github.com/allisson/legacyvault/internal/testutil"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

const (
	ownerWallet = "0x52908400098527886E0F7030069857D2E4169EE7"
	recipient   = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.ScheduledMessage) error {
	args := m.Called(ctx, message)
	if args.Error(0) == nil {
		message.ID = 8
	}
	return args.Error(0)
}

func (m *MockMessageRepository) ListByOwner(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.ScheduledMessage, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduledMessage), args.Error(1)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetByID(ctx context.Context, id int64) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserLookup) GetByWallet(ctx context.Context, wallet string) (*userDomain.User, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

type failingAnchorer struct {
	*anchor.Stub
}

func (failingAnchorer) Anchor(context.Context, string, string) (string, error) {
	return "", errors.New("chain unavailable")
}

type fixture struct {
	uc     *MessageUseCase
	users  *MockUserLookup
	repo   *MockMessageRepository
	outbox *testutil.MockOutboxRepository
	cipher *cryptoService.ChunkedCipher
	keys   *keystore.KeyEncoder
}

func newFixture(t *testing.T, anchorer anchor.Anchorer) *fixture {
	t.Helper()

	cipher := cryptoService.NewChunkedCipher(cryptoService.NewAEADManager(), cryptoDomain.ChaCha20)
	master, err := cipher.GenerateKey()
	require.NoError(t, err)
	keys := keystore.NewKeyEncoder(cipher, master, true)

	if anchorer == nil {
		anchorer = anchor.NewStub(nil)
	}

	users := &MockUserLookup{}
	repo := &MockMessageRepository{}
	outbox := &testutil.MockOutboxRepository{}

	uc := NewMessageUseCase(testutil.NewMockTxManager(), users, repo, outbox, cipher, keys, anchorer,
		slog.New(slog.DiscardHandler))
	uc.now = func() time.Time { return fixedNow }

	return &fixture{uc: uc, users: users, repo: repo, outbox: outbox, cipher: cipher, keys: keys}
}

func validInput() ScheduleInput {
	return ScheduleInput{
		OwnerID:          1,
		RecipientAddress: recipient,
		Content:          "open the blue box",
		DeliveryDate:     fixedNow.Add(365 * 24 * time.Hour),
	}
}

func TestMessageUseCase_ResolveOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("numeric id", func(t *testing.T) {
		f := newFixture(t, nil)
		f.users.On("GetByID", ctx, int64(7)).Return(&userDomain.User{ID: 7}, nil).Once()

		id, err := f.uc.ResolveOwner(ctx, " 7 ")
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})

	t.Run("wallet address", func(t *testing.T) {
		f := newFixture(t, nil)
		f.users.On("GetByWallet", ctx, ownerWallet).Return(&userDomain.User{ID: 3}, nil).Once()

		id, err := f.uc.ResolveOwner(ctx, ownerWallet)
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		f := newFixture(t, nil)
		f.users.On("GetByWallet", ctx, ownerWallet).Return(nil, userDomain.ErrUserNotFound).Once()

		_, err := f.uc.ResolveOwner(ctx, ownerWallet)
		assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
	})

	t.Run("unrecognised reference", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.uc.ResolveOwner(ctx, "alice")
		assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
		f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		f.users.AssertNotCalled(t, "GetByWallet", mock.Anything, mock.Anything)
	})
}

func TestMessageUseCase_Schedule(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	input := validInput()

	f.users.On("GetByID", ctx, int64(1)).Return(&userDomain.User{ID: 1}, nil).Once()
	f.repo.On("Create", ctx, mock.AnythingOfType("*domain.ScheduledMessage")).Return(nil).Once()
	f.outbox.On("Create", ctx, testutil.EventOfType(outboxDomain.EventMessageScheduled)).Return(nil).Once()

	message, err := f.uc.Schedule(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, int64(8), message.ID)
	assert.Equal(t, recipient, message.RecipientAddress)
	assert.False(t, message.IsDelivered)
	assert.Equal(t, input.DeliveryDate, message.DeliveryDate)
	assert.NotContains(t, string(message.EncryptedContent), input.Content)
	require.NotNil(t, message.BlockchainHash)
	assert.Equal(t, anchor.NewStub(nil).Hash([]byte(input.Content)), *message.BlockchainHash)

	key, err := f.keys.Decode(message.EncryptionKey)
	require.NoError(t, err)
	plaintext, err := f.cipher.DecryptData(message.EncryptedContent, key)
	require.NoError(t, err)
	assert.Equal(t, input.Content, string(plaintext))

	f.repo.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
}

func TestMessageUseCase_ScheduleUsesFreshKeys(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(1)).Return(&userDomain.User{ID: 1}, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)
	f.outbox.On("Create", ctx, mock.Anything).Return(nil)

	first, err := f.uc.Schedule(ctx, validInput())
	require.NoError(t, err)
	second, err := f.uc.Schedule(ctx, validInput())
	require.NoError(t, err)

	assert.NotEqual(t, first.EncryptionKey, second.EncryptionKey)
	assert.NotEqual(t, first.EncryptedContent, second.EncryptedContent)
}

func TestMessageUseCase_ScheduleValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ScheduleInput)
		wantErr error
	}{
		{name: "recipient", modify: func(in *ScheduleInput) { in.RecipientAddress = "bob" }, wantErr: domain.ErrInvalidRecipient},
		{name: "delivery now", modify: func(in *ScheduleInput) { in.DeliveryDate = fixedNow }, wantErr: domain.ErrDeliveryDateInPast},
		{
			name:    "delivery in past",
			modify:  func(in *ScheduleInput) { in.DeliveryDate = fixedNow.Add(-time.Minute) },
			wantErr: domain.ErrDeliveryDateInPast,
		},
		{name: "blank content", modify: func(in *ScheduleInput) { in.Content = "  " }, wantErr: domain.ErrEmptyMessageContent},
		{
			name:    "content too large",
			modify:  func(in *ScheduleInput) { in.Content = string(make([]byte, domain.MaxContentSize+1)) + "x" },
			wantErr: domain.ErrMessageContentTooBig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			input := validInput()
			tt.modify(&input)

			_, err := f.uc.Schedule(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestMessageUseCase_ScheduleUnknownOwner(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(1)).Return(nil, userDomain.ErrUserNotFound)

	_, err := f.uc.Schedule(ctx, validInput())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestMessageUseCase_ScheduleSurvivesAnchorFailure(t *testing.T) {
	f := newFixture(t, failingAnchorer{anchor.NewStub(nil)})
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(1)).Return(&userDomain.User{ID: 1}, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)
	f.outbox.On("Create", ctx, mock.Anything).Return(nil)

	message, err := f.uc.Schedule(ctx, validInput())
	require.NoError(t, err)
	assert.Nil(t, message.BlockchainHash)
}

func TestMessageUseCase_ScheduleRepositoryFailure(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	dbErr := errors.New("insert failed")

	f.users.On("GetByID", ctx, int64(1)).Return(&userDomain.User{ID: 1}, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(dbErr)

	_, err := f.uc.Schedule(ctx, validInput())
	assert.ErrorIs(t, err, dbErr)
	f.outbox.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageUseCase_List(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	messages := []*domain.ScheduledMessage{{ID: 8}}

	f.repo.On("ListByOwner", ctx, int64(1), 0, 50).Return(messages, nil).Once()

	got, err := f.uc.List(ctx, 1, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, messages, got)
}
