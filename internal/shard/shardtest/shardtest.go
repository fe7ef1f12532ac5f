// Package shardtest provides an in-memory shard Fetcher for tests, with
// per-key call counting and optional gates that hold a fetch until released.
package shardtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/artifact"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

// Fetcher serves artifacts from memory.
type Fetcher struct {
	mu      sync.Mutex
	data    map[string][]byte
	errs    map[string]error
	gates   map[string]chan struct{}
	calls   map[string]int
	started chan string
}

// New returns an empty Fetcher.
func New() *Fetcher {
	return &Fetcher{
		data:    make(map[string][]byte),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
		calls:   make(map[string]int),
		started: make(chan string, 64),
	}
}

// FromEntries partitions entries into shards of category and serves them.
func FromEntries(category string, entries ...index.Entry) (*Fetcher, error) {
	shards, err := artifact.Partition(category, entries)
	if err != nil {
		return nil, err
	}
	f := New()
	for key, sh := range shards {
		data, err := artifact.Encode(sh)
		if err != nil {
			return nil, err
		}
		f.Set(category, key, data)
	}
	return f, nil
}

func id(category, key string) string { return category + "/" + key }

// Set serves data for (category, key).
func (f *Fetcher) Set(category, key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[id(category, key)] = data
}

// Fail makes fetches of (category, key) return err.
func (f *Fetcher) Fail(category, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[id(category, key)] = err
}

// Gate holds fetches of (category, key) until the returned function is
// called.
func (f *Fetcher) Gate(category, key string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[id(category, key)] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Started delivers "category/key" each time a fetch begins.
func (f *Fetcher) Started() <-chan string { return f.started }

// Calls returns how many fetches of (category, key) have begun.
func (f *Fetcher) Calls(category, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id(category, key)]
}

func (f *Fetcher) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	k := id(category, key)
	f.mu.Lock()
	f.calls[k]++
	gate := f.gates[k]
	data, ok := f.data[k]
	err := f.errs[k]
	f.mu.Unlock()

	select {
	case f.started <- k:
	default:
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrShardNotFound, k)
	}
	return data, nil
}
