package messaging

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for transient transport operations.
// It never applies to message handler logic.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	TryTimeout time.Duration
}

// DefaultRetryConfig returns the system defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  800 * time.Millisecond,
		MaxDelay:   60 * time.Second,
		TryTimeout: 90 * time.Second,
	}
}

// Delay returns the backoff before the given retry attempt (1-based),
// doubling from BaseDelay with jitter and capped at MaxDelay.
func (c RetryConfig) Delay(attempt int) time.Duration {
	delay := c.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}

	jitter := time.Duration(rand.Int63n(int64(100 * time.Millisecond)))
	if delay+jitter > c.MaxDelay {
		return c.MaxDelay
	}
	return delay + jitter
}

// Do runs op with per-attempt timeouts, retrying transient failures with
// exponential backoff. The first execution is not counted as a retry.
func Do(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.Delay(attempt)):
			}
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if cfg.TryTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.TryTimeout)
		}
		lastErr = op(attemptCtx)
		if cancel != nil {
			cancel()
		}

		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}

	return errors.Join(ErrMaxRetriesExceeded, lastErr)
}
