package shard

import (
	"context"
	"errors"
	"time"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/resilience"
)

// Resilient guards a remote Fetcher with a per-attempt timeout, retries with
// backoff, and a circuit breaker. Absent artifacts are neither retried nor
// counted against the breaker.
type Resilient struct {
	next    Fetcher
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
	timeout time.Duration
}

// NewResilient wraps next using the retry, breaker, and timeout settings of
// cfg. State changes of the breaker are reported on m when it is non-nil.
func NewResilient(name string, next Fetcher, cfg config.ShardsConfig, m *metrics.Metrics) *Resilient {
	breaker := resilience.NewCircuitBreaker(name, resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		ResetTimeout:     cfg.Breaker.ResetTimeout,
		IsFailure:        retryable,
		OnStateChange: func(name string, _, to resilience.State) {
			m.SetBreakerState(name, int(to))
		},
	})
	return &Resilient{
		next:    next,
		breaker: breaker,
		retry: resilience.RetryConfig{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
			ShouldRetry:  retryable,
		},
		timeout: cfg.FetchTimeout,
	}
}

// Breaker exposes the circuit breaker for health reporting.
func (r *Resilient) Breaker() *resilience.CircuitBreaker { return r.breaker }

func (r *Resilient) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	var data []byte
	err := r.breaker.Execute(func() error {
		return resilience.Retry(ctx, "shard fetch "+category+"/"+key, r.retry, func() error {
			got := make(chan []byte, 1)
			err := resilience.WithTimeout(ctx, r.timeout, "shard fetch", func(ctx context.Context) error {
				d, err := r.next.Fetch(ctx, category, key)
				if err != nil {
					return err
				}
				got <- d
				return nil
			})
			if err != nil {
				return err
			}
			data = <-got
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Unavailable(category, key, err)
	}
	return data, nil
}

func retryable(err error) bool {
	return !errors.Is(err, apperrors.ErrShardNotFound) &&
		!errors.Is(err, apperrors.ErrInvalidShardKey) &&
		!errors.Is(err, context.Canceled)
}
