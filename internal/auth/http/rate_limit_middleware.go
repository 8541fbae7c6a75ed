package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTimeout     = time.Hour
)

// KeyFunc returns the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// ByClientIP counts requests per client IP. Used on the unauthenticated /auth routes.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByPrincipal counts requests per authenticated user, falling back to the client IP
// when authentication is disabled.
func ByPrincipal(c *gin.Context) string {
	if principal, ok := GetPrincipal(c.Request.Context()); ok {
		return "user:" + strconv.FormatInt(principal.UserID, 10)
	}
	return ByClientIP(c)
}

// limiterStore holds one token bucket per key.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      float64
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*limiterEntry),
		rps:      rps,
		burst:    burst,
		now:      time.Now,
	}
}

// RateLimitMiddleware enforces a token bucket of rps requests per second with the given
// burst for each key returned by keyFunc. Rejected requests get 429 with a Retry-After
// header. Idle buckets are swept until ctx is done.
func RateLimitMiddleware(
	ctx context.Context,
	rps float64,
	burst int,
	keyFunc KeyFunc,
	logger *slog.Logger,
) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)
	go store.cleanup(ctx, limiterCleanupInterval)

	return func(c *gin.Context) {
		key := keyFunc(c)
		limiter := store.get(key)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
			reservation.Cancel()
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.Debug("rate limit exceeded",
				slog.String("key", key),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.limiters[key] = entry
	}
	entry.lastAccess = s.now()
	return entry.limiter
}

func (s *limiterStore) cleanup(ctx context.Context, interval time.Duration) {
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

func (s *limiterStore) sweep() {
	threshold := s.now().Add(-limiterIdleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(s.limiters, key)
		}
	}
}
