package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestUser_ApplyProfile(t *testing.T) {
	dob := time.Date(1950, 3, 4, 0, 0, 0, 0, time.UTC)
	u := &User{
		ID:       1,
		FullName: ptr("Ada Lovelace"),
		Bio:      ptr("old bio"),
	}

	u.ApplyProfile(ProfileUpdate{
		PhoneNumber: ptr("+44 20 0000 0000"),
		DateOfBirth: &dob,
		Bio:         ptr("new bio"),
	})

	assert.Equal(t, "Ada Lovelace", *u.FullName)
	assert.Equal(t, "+44 20 0000 0000", *u.PhoneNumber)
	assert.Equal(t, dob, *u.DateOfBirth)
	assert.Equal(t, "new bio", *u.Bio)
	assert.Nil(t, u.Address)
	assert.Nil(t, u.Username)
}

func TestProfileUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.IsEmpty())
	assert.False(t, ProfileUpdate{Address: ptr("")}.IsEmpty())
}

func TestUser_HasLoggedIn(t *testing.T) {
	now := time.Now()
	assert.False(t, (&User{}).HasLoggedIn())
	assert.True(t, (&User{LastLogin: &now}).HasLoggedIn())
}

func TestNewUserCode(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		code, err := NewUserCode()
		require.NoError(t, err)
		assert.Len(t, code, UserCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(userCodeAlphabet, r))
		}
		seen[code] = true
	}
	assert.Len(t, seen, 100)
}
