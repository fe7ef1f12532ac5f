// Package matcher selects the shard a query addresses and finds every entry
// whose name contains the query, case-insensitively, classifying each hit as
// an exact, prefix or substring match.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

// Class is the specificity of a match. Lower values are more specific.
type Class int

const (
	Exact Class = iota
	Prefix
	Substring
)

func (c Class) String() string {
	switch c {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case Substring:
		return "substring"
	default:
		return "unknown"
	}
}

// Match is one entry that contains the query.
type Match struct {
	Entry *index.Entry
	Class Class
}

// Scope selects which shards a query reads.
type Scope int

const (
	// ScopeLeading reads only the shard addressed by the query's first
	// character.
	ScopeLeading Scope = iota
	// ScopeAll reads every shard, so a query also finds names in which it
	// occurs past the first character of a different shard.
	ScopeAll
)

// ShardGetter is the part of shard.Store the matcher needs.
type ShardGetter interface {
	Get(ctx context.Context, key string) (*index.Shard, error)
}

// Matcher runs queries against a shard store.
type Matcher struct {
	store   ShardGetter
	scope   Scope
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithScope selects which shards a query reads. The default is ScopeLeading.
func WithScope(s Scope) Option {
	return func(m *Matcher) { m.scope = s }
}

// WithMetrics records match class counts on mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Matcher) { m.metrics = mt }
}

// New returns a Matcher reading shards from store.
func New(store ShardGetter, opts ...Option) *Matcher {
	m := &Matcher{
		store:  store,
		logger: slog.Default().With("component", "matcher"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Normalize trims surrounding whitespace and lowercases a raw query.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Match returns every entry matching rawQuery in the store's shard order.
// An empty query returns nil without touching the store. Failing to load the
// addressed shard returns an error matching apperrors.ErrShardUnavailable.
func (m *Matcher) Match(ctx context.Context, rawQuery string) ([]Match, error) {
	q := Normalize(rawQuery)
	if q == "" {
		return nil, nil
	}

	var (
		matches []Match
		err     error
	)
	if m.scope == ScopeAll {
		matches, err = m.matchAll(ctx, q)
	} else {
		matches, err = m.matchLeading(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	m.observe(matches)
	return matches, nil
}

func (m *Matcher) matchLeading(ctx context.Context, q string) ([]Match, error) {
	key := index.KeyFor(q)
	sh, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrShardUnavailable) {
			err = fmt.Errorf("%w: %w", apperrors.ErrShardUnavailable, err)
		}
		return nil, err
	}
	return MatchShard(sh, q), nil
}

// matchAll reads every shard concurrently. Shards that cannot be loaded are
// skipped; the query fails only if none could be.
func (m *Matcher) matchAll(ctx context.Context, q string) ([]Match, error) {
	keys := index.Keys()
	perShard := make([][]Match, len(keys))
	var (
		mu      sync.Mutex
		loaded  int
		lastErr error
	)
	var g errgroup.Group
	g.SetLimit(8)
	for i, key := range keys {
		g.Go(func() error {
			sh, err := m.store.Get(ctx, key)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !errors.Is(err, apperrors.ErrShardNotFound) {
					lastErr = err
				}
				return nil
			}
			loaded++
			perShard[i] = MatchShard(sh, q)
			return nil
		})
	}
	// Workers record failures instead of returning them.
	_ = g.Wait()

	if loaded == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("%w: no shards", apperrors.ErrShardNotFound)
		}
		if !errors.Is(lastErr, apperrors.ErrShardUnavailable) {
			lastErr = fmt.Errorf("%w: %w", apperrors.ErrShardUnavailable, lastErr)
		}
		return nil, lastErr
	}
	if lastErr != nil {
		m.logger.Warn("some shards unavailable", "query", q, "error", lastErr)
	}
	var matches []Match
	for _, ms := range perShard {
		matches = append(matches, ms...)
	}
	return matches, nil
}

// MatchShard scans sh for entries containing q, which must already be
// normalised.
func MatchShard(sh *index.Shard, q string) []Match {
	var matches []Match
	for i := range sh.Entries {
		e := &sh.Entries[i]
		if c, ok := Classify(e.Lower(), q); ok {
			matches = append(matches, Match{Entry: e, Class: c})
		}
	}
	return matches
}

// Classify reports how q occurs in name; both must be lowercased.
func Classify(name, q string) (Class, bool) {
	switch {
	case name == q:
		return Exact, true
	case strings.HasPrefix(name, q):
		return Prefix, true
	case strings.Contains(name, q):
		return Substring, true
	default:
		return 0, false
	}
}

func (m *Matcher) observe(matches []Match) {
	if m.metrics == nil {
		return
	}
	var counts [3]int
	for _, mt := range matches {
		counts[mt.Class]++
	}
	for c, n := range counts {
		m.metrics.ObserveMatches(Class(c).String(), n)
	}
}
