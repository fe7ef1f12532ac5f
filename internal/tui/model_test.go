package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/ranker"
)

type inputs struct{ values []string }

func (i *inputs) Input(raw string) { i.values = append(i.values, raw) }

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var sampleResults = []ranker.Result{
	{Name: "reset", Locations: []index.Location{
		{URL: "Node.html#reset", Scope: "Node"},
		{URL: "TimeManagerClass.html#reset", Scope: "TimeManagerClass"},
	}},
	{Name: "rssi_get", URL: "NodeList.html#rssi_get", Scope: "NodeList"},
}

func TestTypingFeedsQueries(t *testing.T) {
	in := &inputs{}
	m := New(in, NewBridge())
	typeText(m, "res")
	assert.Equal(t, []string{"r", "re", "res"}, in.values)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "re", in.values[len(in.values)-1])
}

func TestBridgeDeliversNewestSnapshot(t *testing.T) {
	b := NewBridge()
	b.Render("r", sampleResults)
	b.Empty("rx")

	msg := b.Wait()()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	assert.Equal(t, KindEmpty, snap.Kind)
	assert.Equal(t, "rx", snap.Query)

	done := make(chan tea.Msg, 1)
	go func() { done <- b.Wait()() }()
	select {
	case <-done:
		t.Fatal("wait returned without a new snapshot")
	case <-time.After(20 * time.Millisecond):
	}
	b.Clear()
	assert.Equal(t, KindCleared, Snapshot((<-done).(snapshotMsg)).Kind)
}

func TestSnapshotRendersGroupsAndSelection(t *testing.T) {
	m := New(&inputs{}, NewBridge())
	_, cmd := m.Update(snapshotMsg{Kind: KindResults, Query: "r", Results: sampleResults})
	assert.NotNil(t, cmd)

	require.Len(t, m.rows, 4)
	assert.True(t, m.rows[0].heading)
	assert.Equal(t, 1, m.selected, "group headings are skipped")

	view := m.View()
	assert.Contains(t, view, "reset")
	assert.Contains(t, view, "TimeManagerClass")
	assert.Contains(t, view, "rssi_get")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, m.selected)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selected, "selection wraps past the heading")
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 3, m.selected)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	loc, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "NodeList.html#rssi_get", loc.URL)
}

func TestEmptyAndClearedViews(t *testing.T) {
	m := New(&inputs{}, NewBridge())
	m.Update(snapshotMsg{Kind: KindEmpty, Query: "zz"})
	assert.Contains(t, m.View(), `No results for "zz"`)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	_, ok := m.Chosen()
	assert.False(t, ok)

	m.Update(snapshotMsg{Kind: KindCleared})
	assert.Contains(t, m.View(), "Type to search")
}
