package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"reset", "r"},
		{"Reset", "r"},
		{"  RSSI_GET", "r"},
		{"_private", FallbackKey},
		{"2fa", FallbackKey},
		{"~Node", FallbackKey},
		{"élan", FallbackKey},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFor(tt.in))
		})
	}
}

func TestValidKey(t *testing.T) {
	for _, k := range Keys() {
		assert.True(t, ValidKey(k), k)
	}
	for _, k := range []string{"", "A", "ab", "1", "-", "é"} {
		assert.False(t, ValidKey(k), k)
	}
	assert.Len(t, Keys(), 27)
	assert.Equal(t, FallbackKey, Keys()[26])
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryAll))
	assert.True(t, ValidCategory("functions"))
	assert.False(t, ValidCategory("../etc"))
}

func TestNewShard(t *testing.T) {
	entries := []Entry{
		NewEntry("reset", []Location{
			{URL: "classNode.html#reset", Scope: "Node"},
			{URL: "classTimeManagerClass.html#reset", Scope: "TimeManagerClass"},
		}),
		{Name: "RSSI_GET", Locations: []Location{{URL: "NodeList_8h.html#rssi", Scope: "NodeList.h"}}},
	}
	s, err := NewShard(CategoryAll, "r", entries)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "rssi_get", s.Entries[1].Lower())
	assert.True(t, s.Entries[0].Grouped())
	assert.False(t, s.Entries[1].Grouped())
}

func TestNewShardRejects(t *testing.T) {
	loc := []Location{{URL: "a.html", Scope: "a"}}
	tests := []struct {
		name    string
		key     string
		entries []Entry
		want    error
	}{
		{"bad key", "R", nil, apperrors.ErrInvalidShardKey},
		{"empty name", "r", []Entry{{Locations: loc}}, apperrors.ErrInvalidArtifact},
		{"no locations", "r", []Entry{{Name: "reset"}}, apperrors.ErrInvalidArtifact},
		{"wrong shard", "r", []Entry{NewEntry("node", loc)}, apperrors.ErrInvalidArtifact},
		{"duplicate", "r", []Entry{NewEntry("reset", loc), NewEntry("reset", loc)}, apperrors.ErrInvalidArtifact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShard(CategoryAll, tt.key, tt.entries)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNewShardAcceptsCaseVariants(t *testing.T) {
	loc := []Location{{URL: "a.html", Scope: "a"}}
	s, err := NewShard(CategoryAll, "r", []Entry{NewEntry("reset", loc), NewEntry("RESET", loc)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}
