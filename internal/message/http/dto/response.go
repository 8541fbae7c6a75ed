package dto

import (
	"time"

	"github.com/allisson/legacyvault/internal/message/domain"
)

// ScheduleMessageResponse confirms a scheduled message.
type ScheduleMessageResponse struct {
	MessageID        int64     `json:"message_id"`
	DeliveryDate     time.Time `json:"delivery_date"`
	RecipientAddress string    `json:"recipient_address"`
}

// MessageSummaryResponse describes a message without its content.
type MessageSummaryResponse struct {
	ID               int64     `json:"id"`
	RecipientAddress string    `json:"recipient_address"`
	DeliveryDate     time.Time `json:"delivery_date"`
	IsDelivered      bool      `json:"is_delivered"`
	BlockchainHash   *string   `json:"blockchain_hash"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListMessagesResponse wraps a page of message summaries.
type ListMessagesResponse struct {
	Data []MessageSummaryResponse `json:"data"`
}

// MapMessageToScheduleResponse converts a newly scheduled message.
func MapMessageToScheduleResponse(message *domain.ScheduledMessage) ScheduleMessageResponse {
	return ScheduleMessageResponse{
		MessageID:        message.ID,
		DeliveryDate:     message.DeliveryDate,
		RecipientAddress: message.RecipientAddress,
	}
}

// MapMessagesToListResponse converts messages to summaries.
func MapMessagesToListResponse(messages []*domain.ScheduledMessage) ListMessagesResponse {
	data := make([]MessageSummaryResponse, 0, len(messages))
	for _, m := range messages {
		data = append(data, MessageSummaryResponse{
			ID:               m.ID,
			RecipientAddress: m.RecipientAddress,
			DeliveryDate:     m.DeliveryDate,
			IsDelivered:      m.IsDelivered,
			BlockchainHash:   m.BlockchainHash,
			CreatedAt:        m.CreatedAt,
		})
	}
	return ListMessagesResponse{Data: data}
}
