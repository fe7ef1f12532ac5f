// Package shardserver serves shard artifacts over HTTP as immutable,
// cacheable static files.
package shardserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/artifact"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/shard"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/logger"
)

// ArtifactPattern is the route the artifact handler is mounted on.
const ArtifactPattern = "GET /search/{category}/{file}"

const immutable = "public, max-age=31536000, immutable"

type Handler struct {
	fetcher shard.Fetcher
	logger  *slog.Logger
}

func New(fetcher shard.Fetcher) *Handler {
	return &Handler{
		fetcher: fetcher,
		logger:  slog.Default().With("component", "shard-handler"),
	}
}

// Register mounts the artifact and key listing routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(ArtifactPattern, h.Artifact)
	mux.HandleFunc("GET /search/keys", h.Keys)
}

// Artifact serves /search/{category}/{key}.json.
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	category := r.PathValue("category")
	file := r.PathValue("file")

	key, ok := strings.CutSuffix(file, artifact.FileExt)
	if !ok || !index.ValidKey(key) {
		h.writeError(w, http.StatusBadRequest, "invalid shard key")
		return
	}
	if !index.ValidCategory(category) {
		h.writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	data, err := h.fetcher.Fetch(r.Context(), category, key)
	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if status >= http.StatusInternalServerError {
			log.Error("shard fetch failed", "category", category, "key", key, "error", err)
		}
		h.writeError(w, status, http.StatusText(status))
		return
	}

	etag := etagFor(data)
	w.Header().Set("Cache-Control", immutable)
	w.Header().Set("ETag", etag)
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Debug("writing shard response", "error", err)
	}
}

// Keys lists every shard key and the categories the server understands.
func (h *Handler) Keys(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	h.writeJSON(w, http.StatusOK, map[string][]string{
		"keys":       index.Keys(),
		"categories": index.Categories,
	})
}

func etagFor(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Cache-Control", "no-store")
	h.writeJSON(w, status, map[string]string{"error": message})
}
