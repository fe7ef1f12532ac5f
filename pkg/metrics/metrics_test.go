package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveFetch("dir", "ok", 3*time.Millisecond)
	m.ObserveFetch("dir", "not_found", time.Millisecond)
	m.Coalesced()
	m.Coalesced()
	m.SetCached("all", 4)
	m.ObserveQuery("results", 3, time.Millisecond)
	m.ObserveMatches("exact", 1)
	m.ObserveMatches("prefix", 0)
	m.StaleDropped()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ShardFetchesTotal.WithLabelValues("dir", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ShardLoadsCoalesced))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ShardsCached.WithLabelValues("all")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("results")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchesTotal.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleResultsDropped))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("dir", "ok", time.Millisecond)
		m.Coalesced()
		m.SetCached("all", 1)
		m.ObserveQuery("empty", 0, time.Millisecond)
		m.ObserveMatches("exact", 2)
		m.StaleDropped()
		m.SetBreakerState("shards", 1)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.StaleDropped()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "search_stale_results_dropped_total 1")
}
