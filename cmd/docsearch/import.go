package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/importer"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard/source"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
)

var (
	flagImportSink    string
	flagImportOut     string
	flagImportWorkers int
)

var importCmd = &cobra.Command{
	Use:   "import <search-dir>",
	Short: "Convert a Doxygen search directory into shard artifacts",
	Long: `import reads the <category>_<n>.js files of a Doxygen HTML search
directory, partitions every category by leading character and writes one
artifact per shard to the configured sink.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportSink, "sink", "", "Where to write artifacts: dir, redis, postgres or badger (default: shards.source)")
	importCmd.Flags().StringVar(&flagImportOut, "out", "", "Output directory for the dir sink (default: shards.dir)")
	importCmd.Flags().IntVar(&flagImportWorkers, "workers", 0, "Parse and write concurrency (default: half the CPUs)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if flagImportSink != "" {
		cfg.Shards.Source = flagImportSink
	}
	if flagImportOut != "" {
		cfg.Shards.Dir = flagImportOut
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Shards.Source == config.SourceDir {
		if err := os.MkdirAll(cfg.Shards.Dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	src, err := source.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("opening sink %q: %w", cfg.Shards.Source, err)
	}
	defer src.Close()
	sink, err := source.AsSink(src)
	if err != nil {
		return err
	}

	report, err := importer.New(sink, importer.WithWorkers(flagImportWorkers)).ImportDir(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "imported %d entries from %d files in %s\n", report.Entries, report.Files, report.Duration.Round(time.Millisecond))
	categories := make([]string, 0, len(report.Shards))
	for category := range report.Shards {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(out, "  %-12s %d shards\n", category, report.Shards[category])
	}
	return nil
}
