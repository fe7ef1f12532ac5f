package shard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/artifact"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

const warmConcurrency = 8

// Stats is a snapshot of a Store's counters.
type Stats struct {
	Category  string `json:"category"`
	Loaded    int    `json:"loaded"`
	Hits      int64  `json:"hits"`
	Fetches   int64  `json:"fetches"`
	Coalesced int64  `json:"coalesced"`
	Failures  int64  `json:"failures"`
}

// Store caches the shards of one category. It is safe for concurrent use.
type Store struct {
	fetcher  Fetcher
	category string
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu     sync.RWMutex
	loaded map[string]*index.Shard
	group  singleflight.Group

	hits      atomic.Int64
	fetches   atomic.Int64
	coalesced atomic.Int64
	failures  atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records cache and coalescing metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates an empty Store reading artifacts of category from
// fetcher.
func NewStore(fetcher Fetcher, category string, opts ...Option) *Store {
	s := &Store{
		fetcher:  fetcher,
		category: category,
		loaded:   make(map[string]*index.Shard),
		logger:   slog.Default().With("component", "shard-store", "category", category),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Category returns the category the store serves.
func (s *Store) Category() string { return s.category }

// Get returns the shard for key, loading it on first use. Concurrent callers
// for the same uncached key share one fetch. Every failure, including a
// cancelled ctx, matches apperrors.ErrShardUnavailable; failures are not
// cached, so a later Get tries again.
//
// A caller whose ctx ends stops waiting, but the shared fetch carries on for
// the remaining waiters.
func (s *Store) Get(ctx context.Context, key string) (*index.Shard, error) {
	if !index.ValidKey(key) {
		return nil, apperrors.Unavailable(s.category, key,
			fmt.Errorf("%w: %q", apperrors.ErrInvalidShardKey, key))
	}
	if sh, ok := s.cached(key); ok {
		s.hits.Add(1)
		return sh, nil
	}

	leader := false
	ch := s.group.DoChan(key, func() (any, error) {
		leader = true
		if sh, ok := s.cached(key); ok {
			return sh, nil
		}
		return s.load(context.WithoutCancel(ctx), key)
	})

	select {
	case res := <-ch:
		if !leader {
			s.coalesced.Add(1)
			s.metrics.Coalesced()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*index.Shard), nil
	case <-ctx.Done():
		return nil, apperrors.Unavailable(s.category, key, ctx.Err())
	}
}

func (s *Store) cached(key string) (*index.Shard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.loaded[key]
	return sh, ok
}

func (s *Store) load(ctx context.Context, key string) (*index.Shard, error) {
	s.fetches.Add(1)
	data, err := s.fetcher.Fetch(ctx, s.category, key)
	if err != nil {
		s.failures.Add(1)
		if errors.Is(err, apperrors.ErrShardNotFound) {
			s.logger.Debug("no artifact for shard", "key", key)
		} else {
			s.logger.Warn("shard fetch failed", "key", key, "error", err)
		}
		return nil, apperrors.Unavailable(s.category, key, err)
	}
	sh, err := artifact.Decode(s.category, key, data)
	if err != nil {
		s.failures.Add(1)
		s.logger.Error("shard artifact rejected", "key", key, "error", err)
		return nil, apperrors.Unavailable(s.category, key, err)
	}

	s.mu.Lock()
	if existing, ok := s.loaded[key]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.loaded[key] = sh
	n := len(s.loaded)
	s.mu.Unlock()

	s.metrics.SetCached(s.category, n)
	s.logger.Debug("shard loaded", "key", key, "entries", sh.Len(), "bytes", len(data))
	return sh, nil
}

// Warm loads the given keys concurrently, or every key when none are given.
// Keys without an artifact are skipped; any other failure is returned.
func (s *Store) Warm(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		keys = index.Keys()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			_, err := s.Get(gctx, key)
			if err != nil && !errors.Is(err, apperrors.ErrShardNotFound) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("warming %s shards: %w", s.category, err)
	}
	s.logger.Info("shards warmed", "requested", len(keys), "loaded", len(s.Loaded()))
	return nil
}

// Loaded returns the keys currently cached, sorted.
func (s *Store) Loaded() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.loaded))
	for k := range s.loaded {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	n := len(s.loaded)
	s.mu.RUnlock()
	return Stats{
		Category:  s.category,
		Loaded:    n,
		Hits:      s.hits.Load(),
		Fetches:   s.fetches.Load(),
		Coalesced: s.coalesced.Load(),
		Failures:  s.failures.Load(),
	}
}
