package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard/source"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/logger"
)

var (
	flagConfig   string
	flagCategory string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "docsearch",
	Short:        "Symbol search over sharded documentation indexes",
	SilenceUsage: true,
	Long: `docsearch queries the per-letter shard artifacts a documentation build
publishes, from a directory, an HTTP origin, Redis, PostgreSQL or an
embedded badger store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagCategory != "" {
			if !index.ValidCategory(flagCategory) {
				return fmt.Errorf("unknown category %q", flagCategory)
			}
			cfg.Shards.Category = flagCategory
		}
		slog.SetDefault(logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagCategory, "category", "", "index category to search (default from config)")
}

// pipeline is the query path shared by the search and tui commands.
type pipeline struct {
	src      source.Source
	store    *shard.Store
	searcher *searcher.Searcher
}

func openPipeline(ctx context.Context, scope matcher.Scope, limit int) (*pipeline, error) {
	src, err := source.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening shard source %q: %w", cfg.Shards.Source, err)
	}
	store := shard.NewStore(source.Fetcher(src, cfg.Shards, nil), cfg.Shards.Category)
	m := matcher.New(store, matcher.WithScope(scope))
	return &pipeline{
		src:      src,
		store:    store,
		searcher: searcher.New(m, limit, nil),
	}, nil
}

func (p *pipeline) Close() error {
	return p.src.Close()
}
