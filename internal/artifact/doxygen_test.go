package artifact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

const searchDataR = `var searchData=
[
  ['random_5flength',['RANDOM_LENGTH',['../cryptModule_8h.html#a164ce4566a4b31ef42907bf37f3e6654',1,'cryptModule.h']]],
  ['reset',['reset',['../classNode.html#a7c565caad2fea0439f28d24887ac2498',1,'Node::reset()'],['../classTimeManagerClass.html#a06cedd303513fccb86207c7f8e09d1d8',1,'TimeManagerClass::reset()'],['../NodeList_8h.html#af7c3a73e',1,'RESET():&#160;NodeList.h']]],
  ['readme_2emd',['readme.md',['../readme_8md.html',1,'']]],
  ['quote',['it\'s',['../q.html',1,'a "scope"']]]
];
`

func TestParseSearchData(t *testing.T) {
	entries, err := ParseSearchData([]byte(searchDataR))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "RANDOM_LENGTH", entries[0].Name)
	assert.Equal(t, []index.Location{
		{URL: "cryptModule_8h.html#a164ce4566a4b31ef42907bf37f3e6654", Scope: "cryptModule.h"},
	}, entries[0].Locations)

	reset := entries[1]
	assert.Equal(t, "reset", reset.Name)
	require.Len(t, reset.Locations, 3)
	assert.Equal(t, "classNode.html#a7c565caad2fea0439f28d24887ac2498", reset.Locations[0].URL)
	assert.Equal(t, "Node::reset()", reset.Locations[0].Scope)
	assert.Equal(t, "RESET(): NodeList.h", reset.Locations[2].Scope)

	assert.Equal(t, "readme.md", entries[2].Name)
	assert.Equal(t, "", entries[2].Locations[0].Scope)

	assert.Equal(t, "it's", entries[3].Name)
	assert.Equal(t, `a "scope"`, entries[3].Locations[0].Scope)
}

func TestParseSearchDataPartitions(t *testing.T) {
	entries, err := ParseSearchData([]byte(searchDataR))
	require.NoError(t, err)
	shards, err := Partition(index.CategoryAll, entries)
	require.NoError(t, err)
	assert.Equal(t, 3, shards["r"].Len())
	assert.Equal(t, 1, shards["i"].Len())
}

func TestParseSearchDataRejects(t *testing.T) {
	for name, src := range map[string]string{
		"no array":     `var searchData;`,
		"unterminated": `var searchData=[['a',['a',['a.html',1,'a']]]`,
		"bad row":      `var searchData=[['a']];`,
		"no locations": `var searchData=[['a',['a']]];`,
		"bad token":    `var searchData=[{a:1}];`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSearchData([]byte(src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidArtifact), "got %v", err)
		})
	}
}
