// Package importer converts a Doxygen search directory into shard artifacts
// and writes them to a shard.Sink.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/artifact"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard"
)

// Report summarises one import run.
type Report struct {
	Files    int
	Entries  int
	Shards   map[string]int
	Skipped  []string
	Duration time.Duration
}

type Importer struct {
	sink    shard.Sink
	workers int
	logger  *slog.Logger
}

type Option func(*Importer)

// WithWorkers sets the size of the parse and write pool.
func WithWorkers(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.workers = n
		}
	}
}

func New(sink shard.Sink, opts ...Option) *Importer {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	im := &Importer{
		sink:    sink,
		workers: workers,
		logger:  slog.Default().With("component", "importer"),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

type searchFile struct {
	path     string
	category string
}

// ImportDir parses every <category>_<n>.js file in dir, partitions the
// entries of each category by shard key and writes one artifact per shard.
// Files whose prefix is not a known category are skipped.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Report, error) {
	start := time.Now()
	report := Report{Shards: make(map[string]int)}

	files, skipped, err := scan(dir)
	if err != nil {
		return report, err
	}
	report.Skipped = skipped
	if len(files) == 0 {
		return report, fmt.Errorf("no search data files in %s", dir)
	}

	pool, err := ants.NewPool(im.workers)
	if err != nil {
		return report, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	parsed := make([][]index.Entry, len(files))
	err = run(ctx, pool, len(files), func(i int) error {
		data, err := os.ReadFile(files[i].path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", files[i].path, err)
		}
		entries, err := artifact.ParseSearchData(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", files[i].path, err)
		}
		parsed[i] = entries
		return nil
	})
	if err != nil {
		return report, err
	}
	report.Files = len(files)

	byCategory := make(map[string][]index.Entry)
	for i, f := range files {
		byCategory[f.category] = append(byCategory[f.category], parsed[i]...)
		report.Entries += len(parsed[i])
	}

	var shards []*index.Shard
	for _, category := range sortedKeys(byCategory) {
		partition, err := artifact.Partition(category, byCategory[category])
		if err != nil {
			return report, err
		}
		for _, key := range sortedKeys(partition) {
			shards = append(shards, partition[key])
		}
		report.Shards[category] = len(partition)
	}

	err = run(ctx, pool, len(shards), func(i int) error {
		s := shards[i]
		data, err := artifact.Encode(s)
		if err != nil {
			return err
		}
		if err := im.sink.Put(ctx, s.Category, s.Key, data); err != nil {
			return fmt.Errorf("writing shard %s/%s: %w", s.Category, s.Key, err)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	im.logger.Info("import complete",
		"dir", dir,
		"files", report.Files,
		"entries", report.Entries,
		"shards", len(shards),
		"skipped", len(report.Skipped),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

// run submits n tasks to pool and waits for all of them. Tasks submitted
// after the first failure or after ctx is done are skipped.
func run(ctx context.Context, pool *ants.Pool, n int, task func(i int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		if failed() {
			break
		}
		wg.Add(1)
		i := i
		if err := pool.Submit(func() {
			defer wg.Done()
			if failed() {
				return
			}
			if err := task(i); err != nil {
				fail(err)
			}
		}); err != nil {
			wg.Done()
			fail(fmt.Errorf("submitting task: %w", err))
			break
		}
	}
	wg.Wait()
	return firstErr
}

func scan(dir string) ([]searchFile, []string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.js"))
	if err != nil {
		return nil, nil, err
	}
	if matches == nil {
		if _, err := os.Stat(dir); err != nil {
			return nil, nil, fmt.Errorf("reading search directory: %w", err)
		}
	}
	sort.Strings(matches)

	var files []searchFile
	var skipped []string
	for _, path := range matches {
		category, ok := categoryOf(filepath.Base(path))
		if !ok {
			skipped = append(skipped, filepath.Base(path))
			continue
		}
		files = append(files, searchFile{path: path, category: category})
	}
	return files, skipped, nil
}

// categoryOf maps "functions_7.js" to "functions".
func categoryOf(base string) (string, bool) {
	name := strings.TrimSuffix(base, ".js")
	i := strings.LastIndexByte(name, '_')
	if i <= 0 || i == len(name)-1 {
		return "", false
	}
	category := name[:i]
	return category, index.ValidCategory(category)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
