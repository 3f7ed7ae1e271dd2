// Package redis implements the store driver against a hosted
// Redis-compatible service via go-redis.
package redis

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hrygo/designgenie/internal/profile"
	"github.com/hrygo/designgenie/store"
)

// DB wraps a go-redis client as a store.Driver. Every failing call is
// logged with its key; no retries and no caching layer live here.
type DB struct {
	client *goredis.Client
}

// NewDB opens a client against the configured Redis endpoint.
func NewDB(profile *profile.Profile) *DB {
	poolSize := profile.RedisPoolSize
	if poolSize == 0 {
		poolSize = 10
	}
	minIdle := profile.RedisMinIdleConns
	if minIdle == 0 {
		minIdle = 2
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         profile.RedisAddr,
		Password:     profile.RedisPassword,
		DB:           profile.RedisDB,
		PoolSize:     poolSize,
		MinIdleConns: minIdle,
	})
	return &DB{client: client}
}

func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := d.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		slog.Error("redis GET failed", "key", key, "error", err)
		return "", false, err
	}
	return value, true, nil
}

func (d *DB) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := d.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("redis SET failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (d *DB) Delete(ctx context.Context, keys ...string) (int64, error) {
	count, err := d.client.Del(ctx, keys...).Result()
	if err != nil {
		slog.Error("redis DEL failed", "keys", keys, "error", err)
		return 0, err
	}
	return count, nil
}

func (d *DB) Exists(ctx context.Context, key string) (bool, error) {
	count, err := d.client.Exists(ctx, key).Result()
	if err != nil {
		slog.Error("redis EXISTS failed", "key", key, "error", err)
		return false, err
	}
	return count == 1, nil
}

func (d *DB) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := d.client.Keys(ctx, pattern).Result()
	if err != nil {
		slog.Error("redis KEYS failed", "pattern", pattern, "error", err)
		return nil, err
	}
	return keys, nil
}

func (d *DB) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	raw, err := d.client.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Error("redis MGET failed", "error", err)
		return nil, err
	}
	values := make([]*string, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			values[i] = &s
		}
	}
	return values, nil
}

func (d *DB) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx).Err(); err != nil {
		slog.Error("redis PING failed", "error", err)
		return err
	}
	return nil
}

func (d *DB) Close() error {
	return d.client.Close()
}

var _ store.Driver = (*DB)(nil)
