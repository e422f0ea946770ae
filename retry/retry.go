/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures retry behavior for external API calls.
type Config struct {
	// Attempts is the total number of call attempts (default: 3).
	Attempts int
	// BackoffBase is the exponential backoff base in seconds. The wait
	// before attempt k+1 is BackoffBase**k, so the default of 2.0 yields
	// waits of 2s, 4s, 8s (default: 2.0).
	BackoffBase float64
	// MaxBackoff caps any single wait (default: 60s).
	MaxBackoff time.Duration

	// Sleep waits for the given duration, returning early with the
	// context's error if it is canceled. Nil uses a real timer.
	// Tests override this to observe the backoff schedule.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.Attempts < 1 {
		return errors.New("attempts must be at least 1")
	}
	if c.BackoffBase <= 0 {
		return errors.New("backoff base must be positive")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	return nil
}

// DefaultConfig returns the retry configuration used for completion calls.
func DefaultConfig() Config {
	return Config{
		Attempts:    3,
		BackoffBase: 2.0,
		MaxBackoff:  60 * time.Second,
	}
}

// backoff returns the wait after the k-th failed attempt (1-based).
func (c Config) backoff(attempt int) time.Duration {
	d := time.Duration(math.Pow(c.BackoffBase, float64(attempt)) * float64(time.Second))
	if c.MaxBackoff > 0 && d > c.MaxBackoff {
		d = c.MaxBackoff
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WithBackoff executes fn up to cfg.Attempts times with exponential backoff
// between attempts. It never sleeps after the final attempt. The error from
// the last attempt is wrapped and returned once all attempts are exhausted.
func WithBackoff[T any](ctx context.Context, cfg Config, operation string, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	if err := cfg.Validate(); err != nil {
		return result, fmt.Errorf("invalid retry config: %w", err)
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if attempt == cfg.Attempts {
			break
		}

		wait := cfg.backoff(attempt)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt).
			With("attempts", cfg.Attempts).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Call failed, retrying")

		if err := sleep(ctx, wait); err != nil {
			return result, err
		}
	}

	return result, fmt.Errorf("%s failed after %d attempts: %w", operation, cfg.Attempts, lastErr)
}
