package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

// OTPStore keeps codes under otp:<email> and lets Redis expire them.
type OTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func (s *OTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, helpers.KeyOTP(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("redis set otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, bool, error) {
	code, err := s.rdb.Get(ctx, helpers.KeyOTP(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get otp: %w", err)
	}
	return code, true, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, helpers.KeyOTP(email)).Err(); err != nil {
		return fmt.Errorf("redis del otp: %w", err)
	}
	return nil
}

// compare-and-delete so two verifiers cannot both take the same code
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *OTPStore) Consume(ctx context.Context, email, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.rdb, []string{helpers.KeyOTP(email)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("redis consume otp: %w", err)
	}
	return n == 1, nil
}

var _ repository.OTPStore = (*OTPStore)(nil)
