package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/ranker"
)

func sampleOutcome() searcher.Outcome {
	return searcher.Outcome{
		Query:    "reset",
		ShardKey: "r",
		Results: []ranker.Result{
			{Name: "reset", Match: "exact", Locations: []index.Location{
				{URL: "classNode.html#a1", Scope: "Node::reset()"},
				{URL: "classTree.html#a2", Scope: "Tree::reset()"},
			}},
			{Name: "reset_pin", Match: "prefix", URL: "gpio_8h.html#a3", Scope: "gpio.h"},
		},
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, &buf, sampleOutcome(), false)
	out := buf.String()
	assert.Contains(t, out, "reset_pin")
	assert.Contains(t, out, "gpio_8h.html#a3")
	assert.Contains(t, out, "  Node::reset()")
	assert.Contains(t, out, "classTree.html#a2")
}

func TestPrintResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	var errBuf bytes.Buffer
	printResults(&buf, &errBuf, searcher.Outcome{Query: "zzz", ShardKey: "z"}, false)
	assert.Equal(t, "No Matches\n", buf.String())
	assert.Empty(t, errBuf.String())
}

func TestPrintResultsUnavailableNotesOnErrorStream(t *testing.T) {
	var buf, errBuf bytes.Buffer
	printResults(&buf, &errBuf, searcher.Outcome{Query: "qq", ShardKey: "q"}, true)
	assert.Equal(t, "No Matches\n", buf.String())
	assert.Equal(t, "shard \"q\" could not be loaded\n", errBuf.String())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, searcher.Outcome{Query: "q", ShardKey: "q"}, true))

	var got searchOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "q", got.Query)
	assert.True(t, got.Unavailable)
	assert.NotNil(t, got.Results)
	assert.Contains(t, buf.String(), `"results": []`)

	buf.Reset()
	require.NoError(t, printJSON(&buf, sampleOutcome(), false))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Results, 2)
	assert.True(t, got.Results[0].Grouped())
	assert.Equal(t, "gpio_8h.html#a3", got.Results[1].URL)
}

func TestHelpExplainsShardScope(t *testing.T) {
	for _, cmd := range []*cobra.Command{searchCmd, tuiCmd} {
		assert.Contains(t, cmd.Long, "--all-shards", cmd.Name())
		assert.Contains(t, cmd.Long, "rssi_get", cmd.Name())
	}
}
