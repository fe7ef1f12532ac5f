package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/ranker"
)

// Kind is what the result pane currently shows.
type Kind int

const (
	KindCleared Kind = iota
	KindResults
	KindEmpty
)

// Snapshot is the renderer state handed to the bubbletea model.
type Snapshot struct {
	Kind    Kind
	Query   string
	Results []ranker.Result
}

// snapshotMsg carries a Snapshot into Update.
type snapshotMsg Snapshot

// Bridge implements controller.Renderer for a bubbletea program. The
// controller's calls only store the newest snapshot and wake the waiting
// command, so they never block on the UI goroutine.
type Bridge struct {
	mu     sync.Mutex
	latest Snapshot
	notify chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{notify: make(chan struct{}, 1)}
}

func (b *Bridge) Render(query string, results []ranker.Result) {
	b.publish(Snapshot{Kind: KindResults, Query: query, Results: results})
}

func (b *Bridge) Empty(query string) {
	b.publish(Snapshot{Kind: KindEmpty, Query: query})
}

func (b *Bridge) Clear() {
	b.publish(Snapshot{Kind: KindCleared})
}

func (b *Bridge) publish(s Snapshot) {
	b.mu.Lock()
	b.latest = s
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Wait returns a command that delivers the next snapshot. Snapshots
// published while nobody waits collapse into the newest one.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		<-b.notify
		b.mu.Lock()
		defer b.mu.Unlock()
		return snapshotMsg(b.latest)
	}
}
