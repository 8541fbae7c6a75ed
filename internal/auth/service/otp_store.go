package service

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryOTPStore keeps pending codes in process memory. Codes do not survive a
// restart and are not shared between replicas; use RedisOTPStore for that.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	now     func() time.Time
}

// NewMemoryOTPStore creates an empty MemoryOTPStore.
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{
		entries: make(map[string]otpEntry),
		now:     time.Now,
	}
}

func (s *MemoryOTPStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = otpEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOTPStore) Consume(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return authDomain.ErrInvalidOTP
	}

	if s.now().After(entry.expiresAt) {
		delete(s.entries, email)
		return authDomain.ErrInvalidOTP
	}

	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		return authDomain.ErrInvalidOTP
	}

	delete(s.entries, email)
	return nil
}

// Cleanup drops expired entries every interval until ctx is cancelled.
func (s *MemoryOTPStore) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryOTPStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for email, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, email)
		}
	}
}

func (s *MemoryOTPStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
