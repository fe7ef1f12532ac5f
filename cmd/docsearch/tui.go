package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/controller"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/tui"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/logger"
)

var (
	flagTUIWarm      bool
	flagTUIAllShards bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive search box; Enter prints the chosen URL",
	Long:  "Open the interactive search box; Enter prints the chosen URL.\n\n" + scopeHelp,
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagTUIWarm, "warm", false, "Load every shard before opening the search box")
	tuiCmd.Flags().BoolVar(&flagTUIAllShards, "all-shards", false, "Match inside names in every shard, not only the query's leading shard")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// The search box owns the terminal, so logs go to a file or nowhere.
	if cfg.Logging.File != "" {
		closeLog, err := logger.SetupFile(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		defer closeLog()
	} else {
		slog.SetDefault(logger.New(io.Discard, cfg.Logging.Level, cfg.Logging.Format))
	}

	scope := matcher.ScopeLeading
	if flagTUIAllShards {
		scope = matcher.ScopeAll
	}
	p, err := openPipeline(ctx, scope, cfg.Search.MaxResults)
	if err != nil {
		return err
	}
	defer p.Close()

	if flagTUIWarm {
		if err := p.store.Warm(ctx, index.Keys()...); err != nil {
			return fmt.Errorf("warming shards: %w", err)
		}
	}

	opts := []controller.Option{controller.WithDebounce(cfg.Search.Debounce)}
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector := analytics.NewCollector(producer, cfg.Analytics.BufferSize, 0, 0)
		collector.Start(ctx)
		defer collector.Close()
		opts = append(opts, controller.WithTracker(collector, cfg.Shards.Category))
	}

	bridge := tui.NewBridge()
	ctl := controller.New(p.searcher, bridge, opts...)
	defer ctl.Close()

	loc, ok, err := tui.Run(ctx, ctl, bridge)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(cmd.OutOrStdout(), loc.URL)
	}
	slog.Info("search box closed", "stats", ctl.Stats(), "shards", p.store.Stats())
	return nil
}
