// Package redis provides a thin wrapper around go-redis/v9 for storing and
// reading shard artifacts as opaque byte blobs under a shared key prefix.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps a go-redis client.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// NewClient creates a Redis client and verifies the connection with a PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{rdb: rdb, prefix: cfg.KeyPrefix}, nil
}

// Key returns the full Redis key for a name under the client's prefix.
func (c *Client) Key(name string) string {
	return c.prefix + name
}

// GetBytes returns the raw value stored under the prefixed name. A missing
// key is reported with an error for which IsNilError is true.
func (c *Client) GetBytes(ctx context.Context, name string) ([]byte, error) {
	return c.rdb.Get(ctx, c.Key(name)).Bytes()
}

// SetBytes stores value under the prefixed name. A zero ttl never expires.
func (c *Client) SetBytes(ctx context.Context, name string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.Key(name), value, ttl).Err()
}

// Del deletes one or more prefixed names.
func (c *Client) Del(ctx context.Context, names ...string) error {
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = c.Key(n)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// FlushByPattern scans for prefixed keys matching the glob pattern and
// deletes them, returning the number of keys removed.
func (c *Client) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	full := c.Key(pattern)
	iter := c.rdb.Scan(ctx, 0, full, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("deleting key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning pattern %s: %w", full, err)
	}
	return deleted, nil
}

// IsNilError reports whether err is a Redis nil (key-not-found) error.
func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping sends a PING to Redis and returns any error.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
