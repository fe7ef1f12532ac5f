// Package searcher runs one query end to end: match against the shard
// store, then rank and group. The controller subpackage drives it from
// keystrokes; the CLI calls it directly.
package searcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

// QueryMatcher produces raw matches for a query.
type QueryMatcher interface {
	Match(ctx context.Context, rawQuery string) ([]matcher.Match, error)
}

// Outcome describes one executed query.
type Outcome struct {
	Query    string
	ShardKey string
	Results  []ranker.Result
	Matches  int
	Classes  map[matcher.Class]int
	Latency  time.Duration
}

// Searcher combines a matcher and the ranker under a result limit.
type Searcher struct {
	matcher QueryMatcher
	limit   int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Searcher. A limit of 0 returns every result.
func New(m QueryMatcher, limit int, mt *metrics.Metrics) *Searcher {
	return &Searcher{
		matcher: m,
		limit:   limit,
		metrics: mt,
		logger:  slog.Default().With("component", "searcher"),
	}
}

// Search runs rawQuery. An unavailable shard is returned as an error
// matching apperrors.ErrShardUnavailable together with an Outcome that has
// no results, so callers can render it as "no results".
func (s *Searcher) Search(ctx context.Context, rawQuery string) (Outcome, error) {
	start := time.Now()
	q := matcher.Normalize(rawQuery)
	out := Outcome{Query: q, ShardKey: index.KeyFor(q)}

	matches, err := s.matcher.Match(ctx, rawQuery)
	out.Latency = time.Since(start)
	if err != nil {
		s.logger.Debug("query degraded to no results", "query", q, "error", err)
		s.metrics.ObserveQuery("unavailable", 0, out.Latency)
		return out, err
	}

	out.Matches = len(matches)
	out.Classes = make(map[matcher.Class]int, 3)
	for _, m := range matches {
		out.Classes[m.Class]++
	}
	out.Results = ranker.Rank(matches, s.limit)
	out.Latency = time.Since(start)

	result := "results"
	if len(out.Results) == 0 {
		result = "empty"
	}
	s.metrics.ObserveQuery(result, len(out.Results), out.Latency)
	return out, nil
}
