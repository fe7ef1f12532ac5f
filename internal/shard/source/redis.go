package source

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	pkgredis "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/redis"
)

// Redis stores artifacts as plain values under <prefix><category>:<key>.
type Redis struct {
	client *pkgredis.Client
}

func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client, err := pkgredis.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedis(client), nil
}

func NewRedis(client *pkgredis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Name() string { return config.SourceRedis }

func redisName(category, key string) string { return category + ":" + key }

func (r *Redis) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	if err := checkAddress(category, key); err != nil {
		return nil, err
	}
	data, err := r.client.GetBytes(ctx, redisName(category, key))
	if pkgredis.IsNilError(err) {
		return nil, notFound(category, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get shard %s/%s: %w", category, key, err)
	}
	return data, nil
}

func (r *Redis) Put(ctx context.Context, category, key string, data []byte) error {
	if err := checkAddress(category, key); err != nil {
		return err
	}
	if err := r.client.SetBytes(ctx, redisName(category, key), data, 0); err != nil {
		return fmt.Errorf("redis set shard %s/%s: %w", category, key, err)
	}
	return nil
}

// Clear removes every artifact of category.
func (r *Redis) Clear(ctx context.Context, category string) (int64, error) {
	return r.client.FlushByPattern(ctx, category+":*")
}

func (r *Redis) Ping(ctx context.Context) error { return r.client.Ping(ctx) }

func (r *Redis) Close() error { return r.client.Close() }
