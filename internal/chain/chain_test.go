package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	clock := NewManualClock(10)
	if got := clock.Advance(5); got != 15 {
		t.Fatalf("advance: got %d, want 15", got)
	}
	clock.Set(3)
	now, err := clock.Now(context.Background())
	if err != nil {
		t.Fatalf("now: %v", err)
	}
	if now != 3 {
		t.Fatalf("now: got %d, want 3", now)
	}
}

func TestBackoffRetries(t *testing.T) {
	calls := 0
	err := backoff{attempts: 3, base: time.Millisecond}.do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("unavailable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls: got %d, want 3", calls)
	}
}

func TestBackoffGivesUp(t *testing.T) {
	want := errors.New("down")
	calls := 0
	err := backoff{attempts: 2, base: time.Millisecond}.do(context.Background(), func(context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
	if calls != 2 {
		t.Fatalf("calls: got %d, want 2", calls)
	}
}

func TestBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := backoff{attempts: 5, base: time.Hour}.do(ctx, func(context.Context) error {
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestBackoffStopsOnCallTimeout(t *testing.T) {
	calls := 0
	err := backoff{attempts: 5, base: time.Hour}.do(context.Background(), func(context.Context) error {
		calls++
		return fmt.Errorf("block number: %w", context.DeadlineExceeded)
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want context.DeadlineExceeded", err)
	}
	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
}
