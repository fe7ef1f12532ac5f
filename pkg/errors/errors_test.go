package errors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardNotFoundIsUnavailable(t *testing.T) {
	assert.True(t, errors.Is(ErrShardNotFound, ErrShardUnavailable))
	assert.False(t, errors.Is(ErrShardUnavailable, ErrShardNotFound))
}

func TestUnavailable(t *testing.T) {
	assert.NoError(t, Unavailable("all", "r", nil))

	err := Unavailable("all", "r", context.DeadlineExceeded)
	assert.True(t, errors.Is(err, ErrShardUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "shard all/r")

	err = Unavailable("all", "q", ErrShardNotFound)
	assert.True(t, errors.Is(err, ErrShardNotFound))
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", Unavailable("all", "z", ErrShardNotFound), http.StatusNotFound},
		{"unavailable", Unavailable("all", "z", errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"bad key", ErrInvalidShardKey, http.StatusBadRequest},
		{"app error", New(ErrInternal, http.StatusTeapot, "brew"), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrInvalidInput, http.StatusBadRequest, "category %q", "nope")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, `invalid input: category "nope"`, err.Error())
}
