package retry

import (
	"context"
	"errors"
	"time"
)

// Retrier re-runs fn with exponential backoff until it succeeds, the context
// ends, or Attempts is exhausted. When Retryable is set, errors it rejects
// are returned immediately.
type Retrier struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(error) bool
}

func (r Retrier) Do(ctx context.Context, fn func() error) error {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := r.Delay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if r.Retryable != nil && !r.Retryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("retry failed")
	}
	return lastErr
}
