package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileRequest_Validate(t *testing.T) {
	past := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	future := time.Now().Add(48 * time.Hour)
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		req     UpdateProfileRequest
		wantErr string
	}{
		{name: "empty update", req: UpdateProfileRequest{}},
		{
			name: "all fields",
			req: UpdateProfileRequest{ProfileFields{
				Username:    str("ada"),
				FullName:    str("Ada Lovelace"),
				DateOfBirth: &past,
				Bio:         str("analyst"),
			}},
		},
		{name: "username with space", req: UpdateProfileRequest{ProfileFields{Username: str("ada l")}}, wantErr: "username"},
		{name: "empty username", req: UpdateProfileRequest{ProfileFields{Username: str("")}}, wantErr: "username"},
		{name: "birth date in future", req: UpdateProfileRequest{ProfileFields{DateOfBirth: &future}}, wantErr: "date_of_birth"},
		{name: "bio too long", req: UpdateProfileRequest{ProfileFields{Bio: str(strings.Repeat("x", 2001))}}, wantErr: "bio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestProfileFields_PartialJSON(t *testing.T) {
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"bio":"new bio"}`), &req))

	update := req.ToProfileUpdate()
	require.NotNil(t, update.Bio)
	assert.Equal(t, "new bio", *update.Bio)
	assert.Nil(t, update.FullName)
	assert.False(t, update.IsEmpty())
}
