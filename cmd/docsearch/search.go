package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

var (
	flagSearchJSON      bool
	flagSearchAllShards bool
	flagSearchLimit     int
)

// scopeHelp explains the default leading-shard scope.
const scopeHelp = `By default only the shard for the query's first character is read, so
only names starting with that character can match: "ss" finds ssl_init but
not rssi_get. Pass --all-shards to match inside names from every shard.`

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one query and print the ranked results",
	Long:  "Run one query and print the ranked results.\n\n" + scopeHelp,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "Print results as JSON")
	searchCmd.Flags().BoolVar(&flagSearchAllShards, "all-shards", false, "Match inside names in every shard, not only the query's leading shard")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", -1, "Maximum number of results (0 for all, default from config)")
	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	Query       string          `json:"query"`
	ShardKey    string          `json:"shard_key,omitempty"`
	Results     []ranker.Result `json:"results"`
	Unavailable bool            `json:"unavailable,omitempty"`
	LatencyMs   int64           `json:"latency_ms"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit := cfg.Search.MaxResults
	if flagSearchLimit >= 0 {
		limit = flagSearchLimit
	}
	scope := matcher.ScopeLeading
	if flagSearchAllShards {
		scope = matcher.ScopeAll
	}

	p, err := openPipeline(cmd.Context(), scope, limit)
	if err != nil {
		return err
	}
	defer p.Close()

	out, err := p.searcher.Search(cmd.Context(), strings.Join(args, " "))
	unavailable := errors.Is(err, apperrors.ErrShardUnavailable)
	if err != nil && !unavailable {
		return err
	}

	if flagSearchJSON {
		return printJSON(cmd.OutOrStdout(), out, unavailable)
	}
	printResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), out, unavailable)
	return nil
}

func printJSON(w io.Writer, out searcher.Outcome, unavailable bool) error {
	results := out.Results
	if results == nil {
		results = []ranker.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchOutput{
		Query:       out.Query,
		ShardKey:    out.ShardKey,
		Results:     results,
		Unavailable: unavailable,
		LatencyMs:   out.Latency.Milliseconds(),
	})
}

func printResults(w, errw io.Writer, out searcher.Outcome, unavailable bool) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No Matches")
		if unavailable {
			fmt.Fprintf(errw, "shard %q could not be loaded\n", out.ShardKey)
		}
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range out.Results {
		if !r.Grouped() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Scope, r.URL)
			continue
		}
		fmt.Fprintf(tw, "%s\t\t\n", r.Name)
		for _, loc := range r.Locations {
			fmt.Fprintf(tw, "  %s\t%s\n", loc.Scope, loc.URL)
		}
	}
	tw.Flush()
}
