// Package index holds the in-memory model of the symbol search index: the
// searchable entries, the documentation locations they point at, and the
// shards that partition them by leading character.
//
// Values in this package are produced once by the artifact decoder and are
// shared read-only between every query that touches the same shard. Callers
// must not mutate an Entry or Shard after it has been handed out.
package index

import (
	"fmt"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

// Location is one documentation anchor where a name is defined.
type Location struct {
	URL   string `json:"url"`
	Scope string `json:"scope"`
}

// Entry is one searchable name and every place it is documented, in the
// order the index build emitted them.
type Entry struct {
	Name      string     `json:"name"`
	Locations []Location `json:"locations"`

	lower string
}

// NewEntry builds an Entry and precomputes its match form.
func NewEntry(name string, locations []Location) Entry {
	return Entry{
		Name:      name,
		Locations: locations,
		lower:     strings.ToLower(name),
	}
}

// Lower returns the lowercased name used for matching.
func (e *Entry) Lower() string {
	if e.lower == "" && e.Name != "" {
		return strings.ToLower(e.Name)
	}
	return e.lower
}

// Grouped reports whether the entry renders as a disambiguation group.
func (e *Entry) Grouped() bool {
	return len(e.Locations) > 1
}

// Shard is the immutable set of entries whose names share a leading
// character class.
type Shard struct {
	Key      string
	Category string
	Entries  []Entry
}

// NewShard validates entries against key and returns the shard. Names must
// be non-empty and unique within the shard, carry at least one location, and
// normalise to key. Names differing only by case are accepted as distinct
// entries; merging them is the index build's job.
func NewShard(category, key string, entries []Entry) (*Shard, error) {
	if !ValidKey(key) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidShardKey, key)
	}
	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("%w: shard %s/%s: entry %d has no name", apperrors.ErrInvalidArtifact, category, key, i)
		}
		if len(e.Locations) == 0 {
			return nil, fmt.Errorf("%w: shard %s/%s: entry %q has no locations", apperrors.ErrInvalidArtifact, category, key, e.Name)
		}
		if e.lower == "" {
			e.lower = strings.ToLower(e.Name)
		}
		if got := KeyFor(e.Name); got != key {
			return nil, fmt.Errorf("%w: shard %s/%s: entry %q belongs to shard %q", apperrors.ErrInvalidArtifact, category, key, e.Name, got)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("%w: shard %s/%s: duplicate entry %q", apperrors.ErrInvalidArtifact, category, key, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return &Shard{Key: key, Category: category, Entries: entries}, nil
}

// Len returns the number of entries in the shard.
func (s *Shard) Len() int {
	return len(s.Entries)
}
