package searcher

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard/shardtest"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

func newSearcher(t *testing.T, limit int) (*Searcher, *metrics.Metrics) {
	t.Helper()
	f, err := shardtest.FromEntries(index.CategoryAll,
		index.NewEntry("reset", []index.Location{{URL: "Node.html#reset", Scope: "Node"}, {URL: "TimeManagerClass.html#reset", Scope: "TimeManagerClass"}}),
		index.NewEntry("resetConfig", []index.Location{{URL: "Config.html#resetConfig"}}),
		index.NewEntry("ring_reset", []index.Location{{URL: "Ring.html#ring_reset"}}),
	)
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	store := shard.NewStore(f, index.CategoryAll, shard.WithMetrics(m))
	return New(matcher.New(store, matcher.WithMetrics(m)), limit, m), m
}

func TestSearch(t *testing.T) {
	s, m := newSearcher(t, 0)
	out, err := s.Search(context.Background(), " Reset")
	require.NoError(t, err)

	assert.Equal(t, "reset", out.Query)
	assert.Equal(t, "r", out.ShardKey)
	require.Len(t, out.Results, 3)
	assert.Equal(t, "reset", out.Results[0].Name)
	assert.True(t, out.Results[0].Grouped())
	assert.Equal(t, map[matcher.Class]int{matcher.Exact: 1, matcher.Prefix: 1, matcher.Substring: 1}, out.Classes)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("results")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchesTotal.WithLabelValues("exact")))
}

func TestSearchLimit(t *testing.T) {
	s, _ := newSearcher(t, 2)
	out, err := s.Search(context.Background(), "reset")
	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, 3, out.Matches)
}

func TestSearchUnavailable(t *testing.T) {
	s, m := newSearcher(t, 0)
	out, err := s.Search(context.Background(), "zzz")
	assert.ErrorIs(t, err, apperrors.ErrShardUnavailable)
	assert.Empty(t, out.Results)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("unavailable")))
}

func TestSearchNoMatches(t *testing.T) {
	s, m := newSearcher(t, 0)
	out, err := s.Search(context.Background(), "rx")
	require.NoError(t, err)
	assert.Empty(t, out.Results)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("empty")))
}
