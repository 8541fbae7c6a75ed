package usecase

import (
	"context"
	"time"

	"github.com/allisson/legacyvault/internal/message/domain"
	"github.com/allisson/legacyvault/internal/metrics"
)

type messageUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewMessageUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewMessageUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &messageUseCaseWithMetrics{next: useCase, metrics: m}
}

func (d *messageUseCaseWithMetrics) ResolveOwner(ctx context.Context, ref string) (int64, error) {
	return d.next.ResolveOwner(ctx, ref)
}

func (d *messageUseCaseWithMetrics) Schedule(
	ctx context.Context,
	input ScheduleInput,
) (*domain.ScheduledMessage, error) {
	start := time.Now()
	message, err := d.next.Schedule(ctx, input)
	metrics.Observe(ctx, d.metrics, metrics.DomainMessage, "message_schedule", start, err)
	if err == nil {
		d.metrics.RecordBytes(ctx, metrics.DomainMessage, "message_schedule", int64(len(input.Content)))
	}
	return message, err
}

func (d *messageUseCaseWithMetrics) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.ScheduledMessage, error) {
	start := time.Now()
	messages, err := d.next.List(ctx, ownerID, offset, limit)
	metrics.Observe(ctx, d.metrics, metrics.DomainMessage, "message_list", start, err)
	return messages, err
}
