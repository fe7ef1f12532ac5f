package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/artifact"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
)

const maxArtifactBytes = 64 << 20

// HTTP fetches artifacts from <base>/<category>/<key>.json, the layout
// shardd and any static file host serve.
type HTTP struct {
	base   string
	client *http.Client
}

// NewHTTP creates an HTTP source. A nil client uses one with a 30s timeout.
func NewHTTP(base string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid shard base URL %q", base)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTP{base: strings.TrimRight(base, "/"), client: client}, nil
}

func (h *HTTP) Name() string { return config.SourceHTTP }

func (h *HTTP) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	if err := checkAddress(category, key); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+"/"+artifact.Path(category, key), nil)
	if err != nil {
		return nil, fmt.Errorf("building shard request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching shard %s/%s: %w", category, key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, notFound(category, key)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetching shard %s/%s: unexpected status %s", category, key, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading shard %s/%s: %w", category, key, err)
	}
	if len(data) > maxArtifactBytes {
		return nil, fmt.Errorf("shard %s/%s exceeds %d bytes", category, key, maxArtifactBytes)
	}
	return data, nil
}

// Ping checks the origin answers; any HTTP response counts as reachable.
func (h *HTTP) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.base+"/", nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
