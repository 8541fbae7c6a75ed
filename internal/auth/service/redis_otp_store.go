package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

const otpKeyPrefix = "legacyvault:otp:"

// consumeScript deletes the key only when it holds the submitted code.
const consumeScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`

// redisClient is the subset of *redis.Client used by RedisOTPStore.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// RedisOTPStore keeps pending codes in redis. Expiry is enforced by the key TTL,
// so an expired code is already gone when it is submitted.
type RedisOTPStore struct {
	client redisClient
}

// NewRedisOTPStore creates a RedisOTPStore backed by client.
func NewRedisOTPStore(client redisClient) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func (s *RedisOTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpKeyPrefix+email, code, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to store otp")
	}
	return nil
}

func (s *RedisOTPStore) Consume(ctx context.Context, email, code string) error {
	deleted, err := s.client.Eval(ctx, consumeScript, []string{otpKeyPrefix + email}, code).Int64()
	if err != nil {
		return apperrors.Wrap(err, "failed to consume otp")
	}
	if deleted == 0 {
		return authDomain.ErrInvalidOTP
	}
	return nil
}
