package shardserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard/shardtest"
)

const artifactR = `{"key":"r","category":"all","entries":[{"name":"reset","locations":[{"url":"Node.html#reset","scope":"Node"}]}]}`

func newServer(t *testing.T) (*httptest.Server, *shardtest.Fetcher) {
	t.Helper()
	f := shardtest.New()
	f.Set("all", "r", []byte(artifactR))
	mux := http.NewServeMux()
	New(f).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, f
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestArtifactServed(t *testing.T) {
	srv, _ := newServer(t)
	resp := get(t, srv.URL+"/search/all/r.json", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "r", doc["key"])
}

func TestArtifactNotModified(t *testing.T) {
	srv, _ := newServer(t)
	etag := get(t, srv.URL+"/search/all/r.json", nil).Header.Get("ETag")

	resp := get(t, srv.URL+"/search/all/r.json", http.Header{"If-None-Match": {`"other", ` + etag}})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Equal(t, etag, resp.Header.Get("ETag"))

	resp = get(t, srv.URL+"/search/all/r.json", http.Header{"If-None-Match": {`"stale"`}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestArtifactErrors(t *testing.T) {
	srv, f := newServer(t)
	f.Fail("all", "x", errors.New("backend down"))

	tests := []struct {
		path string
		want int
	}{
		{"/search/all/q.json", http.StatusNotFound},
		{"/search/all/rr.json", http.StatusBadRequest},
		{"/search/all/r.txt", http.StatusBadRequest},
		{"/search/secrets/r.json", http.StatusBadRequest},
		{"/search/all/x.json", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv.URL+tt.path, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
		})
	}
}

func TestKeys(t *testing.T) {
	srv, _ := newServer(t)
	resp := get(t, srv.URL+"/search/keys", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body["keys"], 27)
	assert.Contains(t, body["categories"], "all")
}

func TestMatchesETag(t *testing.T) {
	assert.True(t, matchesETag(`"a"`, `"a"`))
	assert.True(t, matchesETag(`W/"a"`, `"a"`))
	assert.True(t, matchesETag(`*`, `"a"`))
	assert.False(t, matchesETag(``, `"a"`))
	assert.False(t, matchesETag(`"b"`, `"a"`))
}
