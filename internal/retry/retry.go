// Package retry wraps calls against the Census API and file servers with
// exponential backoff. Only errors classified as transient are retried;
// everything else surfaces immediately.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Config controls how many times a call runs and how long the waits between
// runs grow.
type Config struct {
	// Attempts is the total number of tries including the first. 1 disables
	// retries entirely.
	Attempts int

	// Base is the wait before the first retry.
	Base time.Duration

	// Cap bounds the wait between any two tries.
	Cap time.Duration

	// Factor scales the wait after each failed try.
	Factor float64

	// Jitter spreads each wait by up to this fraction in either direction,
	// so a batch of workers hitting the same outage does not retry in
	// lockstep.
	Jitter float64

	// Retryable decides whether an error is worth another try. Nil means
	// IsTransient.
	Retryable func(error) bool

	// OnRetry runs before each wait with the attempt number and the error
	// that caused it.
	OnRetry func(attempt int, err error)
}

// DefaultConfig suits the Census endpoints: three tries with half-second
// initial backoff doubling to a 30s cap.
func DefaultConfig() Config {
	return Config{
		Attempts: 3,
		Base:     500 * time.Millisecond,
		Cap:      30 * time.Second,
		Factor:   2.0,
		Jitter:   0.25,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, or exhausts
// the configured attempts. Context cancellation cuts the loop short.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for calls that produce a value.
func DoVal[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = withDefaults(cfg)
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(lastErr) {
			return zero, lastErr
		}
		if attempt == cfg.Attempts-1 {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, lastErr)
		}

		timer := time.NewTimer(wait(attempt, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Base <= 0 {
		cfg.Base = def.Base
	}
	if cfg.Cap <= 0 {
		cfg.Cap = def.Cap
	}
	if cfg.Factor <= 0 {
		cfg.Factor = def.Factor
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	return cfg
}

// wait computes the delay before the retry following the given attempt.
func wait(attempt int, cfg Config) time.Duration {
	d := float64(cfg.Base) * math.Pow(cfg.Factor, float64(attempt))
	d = math.Min(d, float64(cfg.Cap))
	if cfg.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * cfg.Jitter
	}
	return time.Duration(math.Max(d, 0))
}

// Logger returns an OnRetry callback that logs each retry attempt.
func Logger(component, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying operation",
			zap.String("component", component),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
