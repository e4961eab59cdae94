// Package retrier provides caller-side retry with exponential backoff.
// Pipeline components never retry internally; the loop that schedules
// them wraps flaky calls (kline fetches) in a Retrier instead.
package retrier

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 30 * time.Second
	defaultAttempts     = 4
	defaultJitter       = 0.1
)

// Retrier retries a function with exponentially growing, jittered delays.
type Retrier struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	attempts     int
	jitter       float64
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(r *Retrier) {
		r.initialDelay = d
	}
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(r *Retrier) {
		r.maxDelay = d
	}
}

// WithAttempts sets the total number of attempts, first call included.
func WithAttempts(n int) Option {
	return func(r *Retrier) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithJitter sets the jitter factor in [0, 1].
func WithJitter(j float64) Option {
	return func(r *Retrier) {
		r.jitter = j
	}
}

// New creates a Retrier with defaults and optional overrides.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
		attempts:     defaultAttempts,
		jitter:       defaultJitter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds, attempts are exhausted, or ctx expires.
// The last error is returned when all attempts fail.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error

	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay(attempt)):
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}

	return err
}

// delay returns the jittered backoff before the given retry attempt.
func (r *Retrier) delay(attempt int) time.Duration {
	d := float64(r.initialDelay)
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= float64(r.maxDelay) {
			d = float64(r.maxDelay)
			break
		}
	}

	d += (rand.Float64()*2 - 1) * r.jitter * d
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// DoWithData runs fn with retries and returns its value on success.
func DoWithData[T any](ctx context.Context, r *Retrier, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
