// File: lixenwraith/gs/config/cache/redis.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis stores entries in a Redis database and leaves expiry to the server.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, logger: zap.NewNop()}
}

func openRedis(conn string, o *options) (Cache, bool, error) {
	if !strings.HasPrefix(conn, "redis://") && !strings.HasPrefix(conn, "rediss://") {
		return nil, false, nil
	}
	opts, err := redis.ParseURL(conn)
	if err != nil {
		return nil, true, fmt.Errorf("invalid redis url: %w", err)
	}
	r := NewRedis(redis.NewClient(opts))
	r.logger = o.logger.Named("redis")
	return r, true, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value with the server-side expiry ttl. A negative ttl deletes
// the key.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis del %q: %w", key, err)
		}
		r.logger.Debug("expired key on set", zap.String("key", key))
		return nil
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
