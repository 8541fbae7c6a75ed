// Package domain defines the outbox event entity and the event types emitted by the vault.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types written alongside the records they describe.
const (
	EventUserRegistered    = "user.registered"
	EventAssetUploaded     = "asset.uploaded"
	EventAccessRuleCreated = "access_rule.created"
	EventMessageScheduled  = "message.scheduled"
)

// OutboxEvent represents an event in the transactional outbox pattern
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOutboxEvent builds a pending event whose payload is the JSON encoding of payload.
func NewOutboxEvent(eventType string, payload any) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return &OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(data),
		Status:    OutboxEventStatusPending,
	}, nil
}

// MarkProcessed records a successful delivery.
func (e *OutboxEvent) MarkProcessed(at time.Time) {
	e.Status = OutboxEventStatusProcessed
	e.ProcessedAt = &at
	e.LastError = nil
}

// MarkAttemptFailed records a failed attempt. The event becomes failed once
// its retries reach maxRetries and stays pending otherwise.
func (e *OutboxEvent) MarkAttemptFailed(err error, maxRetries int) {
	e.Retries++
	msg := err.Error()
	e.LastError = &msg
	if e.Retries >= maxRetries {
		e.Status = OutboxEventStatusFailed
	}
}
