// Package dto provides the scheduled message HTTP request and response shapes.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/legacyvault/internal/message/domain"
	"github.com/allisson/legacyvault/internal/message/usecase"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// OwnerRef is a user id given either as a JSON number or a string holding a
// numeric id or a wallet address.
type OwnerRef string

// UnmarshalJSON accepts a number or a string.
func (r *OwnerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = OwnerRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user_id must be a number or a string")
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("user_id must be an integer")
	}
	*r = OwnerRef(n.String())
	return nil
}

// ScheduleMessageRequest is the body of POST /api/v1/messages/schedule.
type ScheduleMessageRequest struct {
	UserID           OwnerRef  `json:"user_id"`
	RecipientAddress string    `json:"recipient_address"`
	MessageContent   string    `json:"message_content"`
	DeliveryDate     time.Time `json:"delivery_date"`
}

// Validate checks the request fields. user_id is resolved by the handler.
func (r *ScheduleMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RecipientAddress, validation.Required, customValidation.WalletAddress),
		validation.Field(&r.MessageContent,
			validation.Required,
			customValidation.NotBlank,
			validation.RuneLength(1, domain.MaxContentSize),
		),
		validation.Field(&r.DeliveryDate, validation.Required, customValidation.FutureTime(time.Now)),
	)
}

// ToInput converts the request for the use case once the owner is resolved.
func (r *ScheduleMessageRequest) ToInput(ownerID int64) usecase.ScheduleInput {
	return usecase.ScheduleInput{
		OwnerID:          ownerID,
		RecipientAddress: r.RecipientAddress,
		Content:          r.MessageContent,
		DeliveryDate:     r.DeliveryDate,
	}
}
