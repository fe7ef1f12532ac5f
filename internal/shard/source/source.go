// Package source implements shard artifact storage backends: a directory
// tree, a static HTTP origin, Redis, PostgreSQL and an embedded badger
// store. Every backend reads artifacts and all but HTTP can also write them.
package source

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

// Source is a shard artifact backend.
type Source interface {
	shard.Fetcher
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

// Open connects the backend selected by cfg.Shards.Source.
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Shards.Source {
	case config.SourceDir:
		return NewDir(cfg.Shards.Dir), nil
	case config.SourceHTTP:
		return NewHTTP(cfg.Shards.BaseURL, nil)
	case config.SourceRedis:
		return OpenRedis(ctx, cfg.Redis)
	case config.SourcePostgres:
		return OpenPostgres(ctx, cfg.Postgres)
	case config.SourceBadger:
		return OpenBadger(cfg.Badger)
	default:
		return nil, fmt.Errorf("%w: unknown shard source %q", apperrors.ErrInvalidInput, cfg.Shards.Source)
	}
}

// Fetcher wraps src for use by a shard.Store: fetches are instrumented, and
// network backends are additionally guarded by retries, a timeout and a
// circuit breaker.
func Fetcher(src Source, cfg config.ShardsConfig, m *metrics.Metrics) shard.Fetcher {
	f := shard.Instrument(src, src.Name(), m)
	if src.Name() == config.SourceDir || src.Name() == config.SourceBadger {
		return f
	}
	return shard.NewResilient(src.Name(), f, cfg, m)
}

// AsSink returns src as a shard.Sink if the backend is writable.
func AsSink(src Source) (shard.Sink, error) {
	sink, ok := src.(shard.Sink)
	if !ok {
		return nil, fmt.Errorf("%w: shard source %q is read-only", apperrors.ErrInvalidInput, src.Name())
	}
	return sink, nil
}

func checkAddress(category, key string) error {
	if !index.ValidCategory(category) {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrInvalidShardKey, category)
	}
	if !index.ValidKey(key) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidShardKey, key)
	}
	return nil
}

func notFound(category, key string) error {
	return fmt.Errorf("%w: %s/%s", apperrors.ErrShardNotFound, category, key)
}
