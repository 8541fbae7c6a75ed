package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipient = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"

func TestOwnerRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw     string
		want    OwnerRef
		wantErr bool
	}{
		{raw: `{"user_id": 42}`, want: "42"},
		{raw: `{"user_id": "42"}`, want: "42"},
		{raw: `{"user_id": "0x52908400098527886E0F7030069857D2E4169EE7"}`, want: "0x52908400098527886E0F7030069857D2E4169EE7"},
		{raw: `{"user_id": null}`, want: ""},
		{raw: `{}`, want: ""},
		{raw: `{"user_id": 4.5}`, wantErr: true},
		{raw: `{"user_id": true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var req ScheduleMessageRequest
			err := json.Unmarshal([]byte(tt.raw), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.UserID)
		})
	}
}

func TestScheduleMessageRequest_Validate(t *testing.T) {
	valid := func() ScheduleMessageRequest {
		return ScheduleMessageRequest{
			UserID:           "1",
			RecipientAddress: recipient,
			MessageContent:   "hello",
			DeliveryDate:     time.Now().Add(time.Hour),
		}
	}

	tests := []struct {
		name    string
		modify  func(*ScheduleMessageRequest)
		wantErr string
	}{
		{name: "valid", modify: func(*ScheduleMessageRequest) {}},
		{name: "bad recipient", modify: func(r *ScheduleMessageRequest) { r.RecipientAddress = "bob" }, wantErr: "recipient_address"},
		{name: "empty content", modify: func(r *ScheduleMessageRequest) { r.MessageContent = "" }, wantErr: "message_content"},
		{name: "blank content", modify: func(r *ScheduleMessageRequest) { r.MessageContent = " \n" }, wantErr: "message_content"},
		{
			name:    "content too long",
			modify:  func(r *ScheduleMessageRequest) { r.MessageContent = strings.Repeat("a", 64<<10+1) },
			wantErr: "message_content",
		},
		{name: "missing date", modify: func(r *ScheduleMessageRequest) { r.DeliveryDate = time.Time{} }, wantErr: "delivery_date"},
		{
			name:    "past date",
			modify:  func(r *ScheduleMessageRequest) { r.DeliveryDate = time.Now().Add(-time.Hour) },
			wantErr: "delivery_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.modify(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
