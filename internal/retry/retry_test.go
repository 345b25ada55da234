package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrierSucceedsAfterFailures(t *testing.T) {
	calls := 0
	r := Retrier{Attempts: 3, Delay: time.Millisecond}
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetrierReturnsLastError(t *testing.T) {
	calls := 0
	r := Retrier{Attempts: 2, Delay: time.Millisecond}
	err := r.Do(context.Background(), func() error {
		calls++
		return errors.New("still down")
	})
	if err == nil || err.Error() != "still down" {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	r := Retrier{Attempts: 5, Delay: time.Millisecond, Retryable: func(err error) bool {
		return !errors.Is(err, permanent)
	}}
	err := r.Do(context.Background(), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Fatalf("expected one call with permanent error, got %d calls err=%v", calls, err)
	}
}

func TestRetrierHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := Retrier{Attempts: 3, Delay: time.Second}
	err := r.Do(ctx, func() error { return errors.New("fail") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
