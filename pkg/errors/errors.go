// Package errors defines the sentinel errors shared across the search
// subsystem and the AppError wrapper the shard server uses to map failures
// onto HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrShardUnavailable = errors.New("shard unavailable")
	// ErrShardNotFound is the "no artifact for this key" flavour of
	// ErrShardUnavailable; errors.Is matches both.
	ErrShardNotFound   = fmt.Errorf("%w: no artifact", ErrShardUnavailable)
	ErrInvalidArtifact = errors.New("invalid shard artifact")
	ErrInvalidShardKey = errors.New("invalid shard key")
	ErrInvalidInput    = errors.New("invalid input")
	ErrTimeout         = errors.New("operation timed out")
	ErrInternal        = errors.New("internal error")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// Unavailable wraps cause so that it matches ErrShardUnavailable while keeping
// the original error in the chain. A nil cause yields nil.
func Unavailable(category, key string, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrShardUnavailable) {
		return fmt.Errorf("shard %s/%s: %w", category, key, cause)
	}
	return fmt.Errorf("shard %s/%s: %w: %w", category, key, ErrShardUnavailable, cause)
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrShardNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidShardKey), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrShardUnavailable), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
