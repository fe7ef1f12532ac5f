// Package artifact encodes and decodes shard artifacts: the immutable files a
// documentation build publishes, one per (category, shard key).
package artifact

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

// FileExt is the extension shard artifacts are stored under.
const FileExt = ".json"

type document struct {
	Key      string        `json:"key"`
	Category string        `json:"category,omitempty"`
	Entries  []index.Entry `json:"entries"`
}

// Decode parses a JSON shard artifact and validates it against the
// (category, key) it was fetched for.
func Decode(category, key string, data []byte) (*index.Shard, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", apperrors.ErrInvalidArtifact, category, key, err)
	}
	if doc.Key != key {
		return nil, fmt.Errorf("%w: %s/%s: artifact declares key %q", apperrors.ErrInvalidArtifact, category, key, doc.Key)
	}
	if doc.Category != "" && doc.Category != category {
		return nil, fmt.Errorf("%w: %s/%s: artifact declares category %q", apperrors.ErrInvalidArtifact, category, key, doc.Category)
	}
	return index.NewShard(category, key, doc.Entries)
}

// Encode serialises a shard in the format Decode reads.
func Encode(s *index.Shard) ([]byte, error) {
	data, err := json.Marshal(document{
		Key:      s.Key,
		Category: s.Category,
		Entries:  s.Entries,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding shard %s/%s: %w", s.Category, s.Key, err)
	}
	return data, nil
}

// Path returns the artifact path for (category, key) relative to an
// artifact root, e.g. "all/r.json".
func Path(category, key string) string {
	return category + "/" + key + FileExt
}

// Partition splits entries into shards by leading character. Entries whose
// names are equal ignoring case are merged into the first one seen, with
// locations concatenated in input order. Entries are sorted by lowercased
// name within each shard so that artifacts are reproducible.
func Partition(category string, entries []index.Entry) (map[string]*index.Shard, error) {
	type bucket struct {
		byName  map[string]int
		entries []index.Entry
	}
	buckets := make(map[string]*bucket)
	for _, e := range entries {
		key := index.KeyFor(e.Name)
		if key == "" {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{byName: make(map[string]int)}
			buckets[key] = b
		}
		lower := strings.ToLower(e.Name)
		if i, dup := b.byName[lower]; dup {
			merged := b.entries[i]
			locs := make([]index.Location, 0, len(merged.Locations)+len(e.Locations))
			locs = append(locs, merged.Locations...)
			locs = append(locs, e.Locations...)
			b.entries[i] = index.NewEntry(merged.Name, locs)
			continue
		}
		b.byName[lower] = len(b.entries)
		b.entries = append(b.entries, index.NewEntry(e.Name, e.Locations))
	}

	shards := make(map[string]*index.Shard, len(buckets))
	for key, b := range buckets {
		sort.SliceStable(b.entries, func(i, j int) bool {
			return b.entries[i].Lower() < b.entries[j].Lower()
		})
		s, err := index.NewShard(category, key, b.entries)
		if err != nil {
			return nil, fmt.Errorf("partitioning %s: %w", category, err)
		}
		shards[key] = s
	}
	return shards, nil
}
