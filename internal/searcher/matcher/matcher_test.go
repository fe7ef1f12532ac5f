package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard/shardtest"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

var names = []string{
	"reset", "rssi_get", "RESET_PIN", "resetConfig", "readData", "ring_buffer_reset",
	"Node", "NodeList", "node_id", "setup", "sessionKey", "ss_handler",
	"_private", "2fa", "~Node", "Écran",
}

func newStore(t testing.TB) (*shard.Store, *shardtest.Fetcher) {
	t.Helper()
	var entries []index.Entry
	for i, n := range names {
		entries = append(entries, index.NewEntry(n, []index.Location{{URL: fmt.Sprintf("p%d.html#%s", i, n)}}))
	}
	f, err := shardtest.FromEntries(index.CategoryAll, entries...)
	require.NoError(t, err)
	return shard.NewStore(f, index.CategoryAll), f
}

func matchedNames(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Entry.Name
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name, q string
		want    Class
		ok      bool
	}{
		{"reset", "reset", Exact, true},
		{"resetconfig", "reset", Prefix, true},
		{"ring_buffer_reset", "reset", Substring, true},
		{"rssi_get", "ss", Substring, true},
		{"node", "nodes", 0, false},
		{"node", "x", 0, false},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.name, tt.q)
		assert.Equal(t, tt.ok, ok, "%s/%s", tt.name, tt.q)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%s/%s", tt.name, tt.q)
		}
	}
}

func TestMatchLeadingShard(t *testing.T) {
	store, _ := newStore(t)
	m := New(store)

	got, err := m.Match(context.Background(), "  RESET ")
	require.NoError(t, err)
	classes := map[string]Class{}
	for _, mt := range got {
		classes[mt.Entry.Name] = mt.Class
	}
	assert.Equal(t, map[string]Class{
		"reset":             Exact,
		"RESET_PIN":         Prefix,
		"resetConfig":       Prefix,
		"ring_buffer_reset": Substring,
	}, classes)
}

func TestMatchIsSubstringContainmentWithinShard(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	for _, q := range []string{"r", "re", "set", "e", "s", "ss", "node", "n", "_", "2", "~", "é", "xyz"} {
		for _, scope := range []Scope{ScopeLeading, ScopeAll} {
			got, err := New(store, WithScope(scope)).Match(ctx, q)
			if err != nil {
				require.ErrorIs(t, err, apperrors.ErrShardUnavailable)
			}
			var want []string
			for _, n := range names {
				lower := strings.ToLower(n)
				if !strings.Contains(lower, q) {
					continue
				}
				if scope == ScopeLeading && index.KeyFor(n) != index.KeyFor(q) {
					continue
				}
				want = append(want, n)
			}
			assert.ElementsMatch(t, want, matchedNames(got), "query %q scope %d", q, scope)
		}
	}
}

func TestMatchAllFindsAcrossShards(t *testing.T) {
	store, _ := newStore(t)
	got, err := New(store, WithScope(ScopeAll)).Match(context.Background(), "ss")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"rssi_get", "sessionKey", "ss_handler"}, matchedNames(got))

	for _, mt := range got {
		if mt.Entry.Name == "rssi_get" {
			assert.Equal(t, Substring, mt.Class)
		}
	}
}

func TestMatchAllSkipsFailedShards(t *testing.T) {
	_, f := newStore(t)
	flaky := shard.FetcherFunc(func(ctx context.Context, category, key string) ([]byte, error) {
		if key == "r" {
			return nil, errors.New("network down")
		}
		return f.Fetch(ctx, category, key)
	})
	got, err := New(shard.NewStore(flaky, index.CategoryAll), WithScope(ScopeAll)).Match(context.Background(), "ss")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sessionKey", "ss_handler"}, matchedNames(got))
}

type countingGetter struct{ calls int }

func (c *countingGetter) Get(ctx context.Context, key string) (*index.Shard, error) {
	c.calls++
	return nil, apperrors.ErrShardNotFound
}

func TestEmptyQueryTouchesNoShard(t *testing.T) {
	g := &countingGetter{}
	for _, scope := range []Scope{ScopeLeading, ScopeAll} {
		got, err := New(g, WithScope(scope)).Match(context.Background(), "   ")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Zero(t, g.calls)
}

func TestMatchUnavailableShard(t *testing.T) {
	store, _ := newStore(t)
	_, err := New(store).Match(context.Background(), "q")
	assert.ErrorIs(t, err, apperrors.ErrShardUnavailable)

	failing := shard.FetcherFunc(func(ctx context.Context, category, key string) ([]byte, error) {
		return nil, errors.New("network down")
	})
	_, err = New(shard.NewStore(failing, index.CategoryAll), WithScope(ScopeAll)).Match(context.Background(), "r")
	assert.ErrorIs(t, err, apperrors.ErrShardUnavailable)
}

func TestMatchIsDeterministic(t *testing.T) {
	store, _ := newStore(t)
	m := New(store, WithScope(ScopeAll))
	first, err := m.Match(context.Background(), "e")
	require.NoError(t, err)
	second, err := m.Match(context.Background(), "e")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func BenchmarkMatchShard(b *testing.B) {
	entries := make([]index.Entry, 0, 5000)
	for i := 0; i < 5000; i++ {
		entries = append(entries, index.NewEntry(fmt.Sprintf("symbol_%05d_handler", i), []index.Location{{URL: "x.html"}}))
	}
	sh, err := index.NewShard(index.CategoryAll, "s", entries)
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchShard(sh, "042")
	}
}
