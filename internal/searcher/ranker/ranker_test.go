package ranker

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard/shardtest"
)

func entry(name string, urls ...string) *index.Entry {
	locs := make([]index.Location, len(urls))
	for i, u := range urls {
		locs[i] = index.Location{URL: u, Scope: "scope-" + u}
	}
	e := index.NewEntry(name, locs)
	return &e
}

func names(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestRankOrdersByClassLengthName(t *testing.T) {
	matches := []matcher.Match{
		{Entry: entry("ring_reset", "a"), Class: matcher.Substring},
		{Entry: entry("resetAll", "b"), Class: matcher.Prefix},
		{Entry: entry("reset_pin", "c"), Class: matcher.Prefix},
		{Entry: entry("resetB", "d"), Class: matcher.Prefix},
		{Entry: entry("resetA", "e"), Class: matcher.Prefix},
		{Entry: entry("reset", "f"), Class: matcher.Exact},
		{Entry: entry("do_reset", "g"), Class: matcher.Substring},
	}
	got := Rank(matches, 0)
	assert.Equal(t, []string{"reset", "resetA", "resetB", "resetAll", "reset_pin", "do_reset", "ring_reset"}, names(got))
}

func TestRankGroupsMultiLocationEntries(t *testing.T) {
	got := Rank([]matcher.Match{
		{Entry: entry("reset", "Node.html#reset", "TimeManagerClass.html#reset"), Class: matcher.Exact},
		{Entry: entry("rssi_get", "NodeList.html#rssi_get"), Class: matcher.Substring},
	}, 0)
	require.Len(t, got, 2)

	assert.True(t, got[0].Grouped())
	assert.Empty(t, got[0].URL)
	assert.Equal(t, []index.Location{
		{URL: "Node.html#reset", Scope: "scope-Node.html#reset"},
		{URL: "TimeManagerClass.html#reset", Scope: "scope-TimeManagerClass.html#reset"},
	}, got[0].Locations)
	assert.Equal(t, "exact", got[0].Match)

	assert.False(t, got[1].Grouped())
	assert.Equal(t, "NodeList.html#rssi_get", got[1].URL)
	assert.Equal(t, "scope-NodeList.html#rssi_get", got[1].Scope)
	assert.Equal(t, matcher.Substring, got[1].Class())
}

func TestRankLimitMatchesFullSort(t *testing.T) {
	var matches []matcher.Match
	classes := []matcher.Class{matcher.Exact, matcher.Prefix, matcher.Substring}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		name := fmt.Sprintf("n%0*d", rng.Intn(4)+1, i)
		matches = append(matches, matcher.Match{Entry: entry(name, name+".html"), Class: classes[rng.Intn(3)]})
	}
	full := Rank(matches, 0)
	for _, k := range []int{1, 5, 50, 199} {
		assert.Equal(t, full[:k], Rank(matches, k), "limit %d", k)
	}
	assert.Len(t, Rank(matches, 500), 200)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, 0))
	assert.Empty(t, Rank(nil, 10))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	matches := []matcher.Match{
		{Entry: entry("zz", "a"), Class: matcher.Substring},
		{Entry: entry("z", "b"), Class: matcher.Exact},
	}
	Rank(matches, 0)
	assert.Equal(t, "zz", matches[0].Entry.Name)
}

func TestResetExample(t *testing.T) {
	f, err := shardtest.FromEntries(index.CategoryAll,
		*entry("reset", "Node.html#reset", "TimeManagerClass.html#reset"),
		*entry("rssi_get", "NodeList.html#rssi_get"),
	)
	require.NoError(t, err)
	store := shard.NewStore(f, index.CategoryAll)
	ctx := context.Background()

	ms, err := matcher.New(store).Match(ctx, "reset")
	require.NoError(t, err)
	got := Rank(ms, 0)
	require.Len(t, got, 1)
	assert.True(t, got[0].Grouped())
	assert.Len(t, got[0].Locations, 2)

	ms, err = matcher.New(store, matcher.WithScope(matcher.ScopeAll)).Match(ctx, "ss")
	require.NoError(t, err)
	got = Rank(ms, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "rssi_get", got[0].Name)
	assert.Equal(t, "substring", got[0].Match)
}

func BenchmarkRank(b *testing.B) {
	var matches []matcher.Match
	for i := 0; i < 2000; i++ {
		matches = append(matches, matcher.Match{Entry: entry(fmt.Sprintf("sym%d", i), "x"), Class: matcher.Class(i % 3)})
	}
	b.Run("all", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Rank(matches, 0)
		}
	})
	b.Run("top20", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Rank(matches, 20)
		}
	})
}
