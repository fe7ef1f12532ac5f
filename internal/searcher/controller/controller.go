// Package controller owns the interactive query lifecycle. Keystrokes are
// debounced into queries, each stamped with a generation; a result reaches
// the Renderer only if no newer keystroke arrived while it was computed.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

// State is the controller's position in the query lifecycle.
type State int

const (
	Idle State = iota
	Pending
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Renderer paints the outcome of queries. Calls are serialised and made
// with the controller's lock held, so implementations must return promptly
// and must not call back into the Controller.
type Renderer interface {
	// Render shows a non-empty ranked result list for query.
	Render(query string, results []ranker.Result)
	// Empty shows that query matched nothing, or its shard was unavailable.
	Empty(query string)
	// Clear removes any results because the query text was cleared.
	Clear()
}

// Searcher runs one query.
type Searcher interface {
	Search(ctx context.Context, rawQuery string) (searcher.Outcome, error)
}

// Tracker receives telemetry for settled queries.
type Tracker interface {
	TrackSearch(event analytics.SearchEvent)
}

// Stats counts what the controller has done so far.
type Stats struct {
	Generation uint64 `json:"generation"`
	Started    uint64 `json:"started"`
	Settled    uint64 `json:"settled"`
	Dropped    uint64 `json:"dropped"`
}

// Controller turns raw text changes into rendered results.
type Controller struct {
	searcher Searcher
	renderer Renderer
	debounce time.Duration
	category string
	session  string
	tracker  Tracker
	metrics  *metrics.Metrics
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	gen     uint64
	query   string
	timer   *time.Timer
	started uint64
	settled uint64
	dropped uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce waits for d of quiet after the last keystroke before
// querying. Zero queries on every keystroke.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithTracker reports every settled query to t, labelled with category.
func WithTracker(t Tracker, category string) Option {
	return func(c *Controller) {
		c.tracker = t
		c.category = category
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func New(s Searcher, r Renderer, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		searcher: s,
		renderer: r,
		session:  uuid.NewString(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = slog.Default().With("component", "search-controller", "session", c.session)
	return c
}

// Input delivers the full current text of the search box. Whitespace-only
// text clears the results immediately; anything else schedules a query.
func (c *Controller) Input(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	gen := c.gen
	c.query = raw
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if matcher.Normalize(raw) == "" {
		c.state = Idle
		c.renderer.Clear()
		return
	}

	c.state = Pending
	if c.debounce <= 0 {
		go c.run(gen, raw)
		return
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.run(gen, raw) })
}

// Clear is Input("").
func (c *Controller) Clear() {
	c.Input("")
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Query returns the raw text of the latest input.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Generation: c.gen, Started: c.started, Settled: c.settled, Dropped: c.dropped}
}

// Close stops pending timers and abandons in-flight queries; nothing is
// rendered afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) current(gen uint64) bool {
	return gen == c.gen && c.ctx.Err() == nil
}

func (c *Controller) run(gen uint64, raw string) {
	c.mu.Lock()
	if !c.current(gen) {
		c.mu.Unlock()
		return
	}
	c.started++
	c.mu.Unlock()

	out, err := c.searcher.Search(c.ctx, raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		c.dropped++
		c.metrics.StaleDropped()
		c.logger.Debug("stale result dropped", "query", out.Query, "generation", gen, "current", c.gen)
		return
	}

	c.state = Settled
	c.settled++
	unavailable := err != nil
	if unavailable && !errors.Is(err, apperrors.ErrShardUnavailable) {
		c.logger.Warn("query failed", "query", out.Query, "error", err)
	}
	if len(out.Results) == 0 {
		c.renderer.Empty(raw)
	} else {
		c.renderer.Render(raw, out.Results)
	}
	c.track(out, unavailable)
}

func (c *Controller) track(out searcher.Outcome, unavailable bool) {
	if c.tracker == nil {
		return
	}
	c.tracker.TrackSearch(analytics.SearchEvent{
		Type:        analytics.EventSearch,
		SessionID:   c.session,
		Query:       out.Query,
		Category:    c.category,
		ShardKey:    out.ShardKey,
		Results:     len(out.Results),
		Exact:       out.Classes[matcher.Exact],
		Prefix:      out.Classes[matcher.Prefix],
		Substring:   out.Classes[matcher.Substring],
		Unavailable: unavailable,
		LatencyMs:   out.Latency.Milliseconds(),
		Timestamp:   time.Now().UTC(),
	})
}
