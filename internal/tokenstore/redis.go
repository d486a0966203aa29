package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisTimeout bounds each Redis round trip.
const DefaultRedisTimeout = 3 * time.Second

// Redis stores the token under the admin_token key of a shared Redis, so
// several operators' machines can share one login.
type Redis struct {
	rdb     redis.Cmdable
	timeout time.Duration
	logger  *zap.Logger
}

// NewRedis wraps a Redis client. A nil logger disables logging.
func NewRedis(rdb redis.Cmdable, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{rdb: rdb, timeout: DefaultRedisTimeout, logger: logger}
}

func (r *Redis) Get() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	value, err := r.rdb.Get(ctx, Key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		r.logger.Warn("reading token from redis", zap.Error(err))
		return "", false
	}
	return value, value != ""
}

func (r *Redis) Set(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.rdb.Set(ctx, Key, token, 0).Err(); err != nil {
		return fmt.Errorf("storing token in redis: %w", err)
	}
	return nil
}

func (r *Redis) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.rdb.Del(ctx, Key).Err(); err != nil {
		return fmt.Errorf("removing token from redis: %w", err)
	}
	return nil
}
