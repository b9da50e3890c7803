package chain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// backoff retries RPC reads with a doubling delay.
type backoff struct {
	attempts int
	base     time.Duration
}

// do calls fn until it succeeds or attempts run out. A context error, from ctx
// or returned by fn, ends the loop at once.
func (b backoff) do(ctx context.Context, fn func(context.Context) error) error {
	attempts := b.attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := b.base
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt >= attempts {
			return fmt.Errorf("after %d attempts: %w", attempt, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
