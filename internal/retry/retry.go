// Package retry implements a bounded retry policy with a fixed delay and a
// caller-supplied retryable-error predicate.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy describes a bounded retry loop. MaxAttempts counts the first try,
// so MaxAttempts=3 means at most two retries. A nil ShouldRetry predicate
// retries every error.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	ShouldRetry func(error) bool
}

// Do runs fn until it succeeds, a non-retryable error occurs, attempts are
// exhausted, or ctx is cancelled. The last error is returned; exhaustion does
// not change the error, so callers can classify it with errors.Is.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p.ShouldRetry != nil && !p.ShouldRetry(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return err
		}
	}
	return lastErr
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx == nil {
		return errors.New("retry: nil context")
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
