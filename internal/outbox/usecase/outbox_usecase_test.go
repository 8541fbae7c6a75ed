package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/legacyvault/internal/outbox/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockTxManager runs fn inline unless an error is configured.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockOutboxEventRepository struct {
	mock.Mock
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OutboxEvent), args.Error(1)
}

func (m *MockOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockEventProcessor struct {
	mock.Mock
}

func (m *MockEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var testConfig = Config{Interval: 10 * time.Millisecond, BatchSize: 10, MaxRetries: 3}

func pendingEvent(eventType string, retries int) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   `{"asset_id": 1, "user_id": 7}`,
		Status:    domain.OutboxEventStatusPending,
		Retries:   retries,
	}
}

type fixture struct {
	tx        *MockTxManager
	repo      *MockOutboxEventRepository
	processor *MockEventProcessor
	uc        *OutboxUseCase
}

func newFixture() *fixture {
	f := &fixture{
		tx:        &MockTxManager{},
		repo:      &MockOutboxEventRepository{},
		processor: &MockEventProcessor{},
	}
	f.uc = NewOutboxUseCase(testConfig, f.tx, f.repo, f.processor, nil)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.tx.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.processor.AssertExpectations(t)
}

func TestOutboxUseCase_Start_ContextCancellation(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.uc.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutboxUseCase_Start_PollsUntilCancelled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())

	f.tx.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("GetPendingEvents", mock.Anything, testConfig.BatchSize).
		Return([]*domain.OutboxEvent{}, nil).
		Run(func(mock.Arguments) { cancel() })

	done := make(chan error, 1)
	go func() { done <- f.uc.Start(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
	f.repo.AssertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	events := []*domain.OutboxEvent{
		pendingEvent(domain.EventAssetUploaded, 0),
		pendingEvent(domain.EventMessageScheduled, 0),
	}

	f.tx.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.repo.On("GetPendingEvents", ctx, testConfig.BatchSize).Return(events, nil)
	f.processor.On("Process", ctx, events[0]).Return(nil)
	f.processor.On("Process", ctx, events[1]).Return(nil)
	f.repo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.Status == domain.OutboxEventStatusProcessed && e.ProcessedAt != nil
	})).Return(nil).Times(2)

	require.NoError(t, f.uc.ProcessEvents(ctx))
	f.assertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_NoEvents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	f.repo.On("GetPendingEvents", ctx, testConfig.BatchSize).Return([]*domain.OutboxEvent{}, nil)

	require.NoError(t, f.uc.ProcessEvents(ctx))
	f.assertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_GetPendingError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	f.repo.On("GetPendingEvents", ctx, testConfig.BatchSize).Return(nil, errors.New("database error"))

	err := f.uc.ProcessEvents(ctx)
	assert.ErrorContains(t, err, "database error")
	f.assertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_ProcessorErrorKeepsPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	event := pendingEvent(domain.EventAccessRuleCreated, 0)

	f.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	f.repo.On("GetPendingEvents", ctx, testConfig.BatchSize).Return([]*domain.OutboxEvent{event}, nil)
	f.processor.On("Process", ctx, event).Return(errors.New("processing failed"))
	f.repo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.ID == event.ID &&
			e.Retries == 1 &&
			e.Status == domain.OutboxEventStatusPending &&
			e.LastError != nil && *e.LastError == "processing failed"
	})).Return(nil)

	require.NoError(t, f.uc.ProcessEvents(ctx))
	f.assertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_MaxRetriesReached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	event := pendingEvent(domain.EventAssetUploaded, testConfig.MaxRetries-1)

	f.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	f.repo.On("GetPendingEvents", ctx, testConfig.BatchSize).Return([]*domain.OutboxEvent{event}, nil)
	f.processor.On("Process", ctx, event).Return(errors.New("processing failed"))
	f.repo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.Retries == testConfig.MaxRetries && e.Status == domain.OutboxEventStatusFailed
	})).Return(nil)

	require.NoError(t, f.uc.ProcessEvents(ctx))
	f.assertExpectations(t)
}

func TestOutboxUseCase_ProcessEvents_UpdateError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	event := pendingEvent(domain.EventAssetUploaded, 0)

	f.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	f.repo.On("GetPendingEvents", ctx, testConfig.BatchSize).Return([]*domain.OutboxEvent{event}, nil)
	f.processor.On("Process", ctx, event).Return(nil)
	f.repo.On("Update", ctx, mock.AnythingOfType("*domain.OutboxEvent")).Return(errors.New("update failed"))

	err := f.uc.ProcessEvents(ctx)
	assert.ErrorContains(t, err, "update failed")
	f.assertExpectations(t)
}

func TestLoggingEventProcessor_Process(t *testing.T) {
	var buf bytes.Buffer
	processor := NewLoggingEventProcessor(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := processor.Process(context.Background(), pendingEvent(domain.EventAssetUploaded, 0))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"event_type":"asset.uploaded"`)
	assert.Contains(t, buf.String(), `"msg":"vault event"`)
}

func TestLoggingEventProcessor_UnknownEventType(t *testing.T) {
	var buf bytes.Buffer
	processor := NewLoggingEventProcessor(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := processor.Process(context.Background(), pendingEvent("unknown.event", 0))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestLoggingEventProcessor_InvalidJSON(t *testing.T) {
	processor := NewLoggingEventProcessor(nil)
	event := pendingEvent(domain.EventAssetUploaded, 0)
	event.Payload = "invalid json"

	assert.Error(t, processor.Process(context.Background(), event))
}
