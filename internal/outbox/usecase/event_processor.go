package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/allisson/legacyvault/internal/outbox/domain"
)

// LoggingEventProcessor records vault events in the structured log. It is the
// hook where notification delivery would be plugged in.
type LoggingEventProcessor struct {
	logger *slog.Logger
}

// NewLoggingEventProcessor creates a new LoggingEventProcessor
func NewLoggingEventProcessor(logger *slog.Logger) *LoggingEventProcessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingEventProcessor{logger: logger}
}

// Process validates the payload and logs the event. Unknown types are logged
// as warnings and still count as processed.
func (p *LoggingEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", event.EventType, err)
	}

	switch event.EventType {
	case domain.EventUserRegistered,
		domain.EventAssetUploaded,
		domain.EventAccessRuleCreated,
		domain.EventMessageScheduled:
		p.logger.InfoContext(ctx, "vault event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Any("payload", payload),
		)
	default:
		p.logger.WarnContext(ctx, "unknown event type", slog.String("event_type", event.EventType))
	}

	return nil
}
