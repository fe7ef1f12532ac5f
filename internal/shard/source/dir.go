package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/artifact"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
)

// Dir stores artifacts as <root>/<category>/<key>.json.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Name() string { return config.SourceDir }

func (d *Dir) path(category, key string) string {
	return filepath.Join(d.root, filepath.FromSlash(artifact.Path(category, key)))
}

func (d *Dir) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	if err := checkAddress(category, key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.path(category, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(category, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading shard %s/%s: %w", category, key, err)
	}
	return data, nil
}

// Put writes the artifact through a temporary file so readers never see a
// partial artifact.
func (d *Dir) Put(ctx context.Context, category, key string, data []byte) error {
	if err := checkAddress(category, key); err != nil {
		return err
	}
	final := d.path(category, key)
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return fmt.Errorf("creating shard directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(final), "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing shard %s/%s: %w", category, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing shard %s/%s: %w", category, key, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("publishing shard %s/%s: %w", category, key, err)
	}
	return nil
}

func (d *Dir) Ping(ctx context.Context) error {
	info, err := os.Stat(d.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", d.root)
	}
	return nil
}

func (d *Dir) Close() error { return nil }
