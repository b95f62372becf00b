package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	ConnectionURL  string        `env:"SESSIONKIT_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix      string        `env:"SESSIONKIT_REDIS_PREFIX" envDefault:"sessionkit:"`
	RetryAttempts  int           `env:"SESSIONKIT_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"SESSIONKIT_REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"SESSIONKIT_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Redis implements Store backed by a Redis server. Used by dev and
// simulator environments where device state has to survive app reinstalls.
type Redis struct {
	client *redis.Client
	prefix string
}

var (
	_ Store   = (*Redis)(nil)
	_ Clearer = (*Redis)(nil)
)

// NewRedis connects to Redis using cfg, retrying per the retry settings.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	for attempt := 0; attempt < cfg.RetryAttempts; attempt++ {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return &Redis{client: client, prefix: cfg.KeyPrefix}, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrUnavailable, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrUnavailable
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get retrieves the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return value, nil
}

// Set stores value under key.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Remove deletes key. Missing keys are ignored.
func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// RemoveAll deletes every key in keys.
func (r *Redis) RemoveAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = r.prefix + key
	}
	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// ListKeys returns all keys under the configured prefix.
func (r *Redis) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(r.prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return keys, nil
}

// Clear removes every key under the configured prefix.
func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return err
	}
	return r.RemoveAll(ctx, keys)
}
