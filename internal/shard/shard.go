// Package shard owns acquisition and caching of index shards. A Store loads
// each shard of one category at most once per process, coalescing concurrent
// requests for the same key into a single fetch, and never evicts.
package shard

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

// Fetcher returns the raw artifact bytes for (category, key). An absent
// artifact is reported with an error matching apperrors.ErrShardNotFound.
type Fetcher interface {
	Fetch(ctx context.Context, category, key string) ([]byte, error)
}

// Sink stores artifact bytes for (category, key), replacing any previous
// artifact.
type Sink interface {
	Put(ctx context.Context, category, key string, data []byte) error
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, category, key string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	return f(ctx, category, key)
}

type instrumented struct {
	next    Fetcher
	source  string
	metrics *metrics.Metrics
}

// Instrument records the latency and outcome of every fetch on m under the
// given source label.
func Instrument(next Fetcher, source string, m *metrics.Metrics) Fetcher {
	if m == nil {
		return next
	}
	return &instrumented{next: next, source: source, metrics: m}
}

func (f *instrumented) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	start := time.Now()
	data, err := f.next.Fetch(ctx, category, key)
	f.metrics.ObserveFetch(f.source, outcome(err), time.Since(start))
	return data, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrShardNotFound):
		return "not_found"
	default:
		return "error"
	}
}
