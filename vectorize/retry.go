package vectorize

import (
	"context"
	"time"
)

// RetryWithBackoff runs operation until it succeeds, the attempt budget is
// spent, or ctx is cancelled while waiting between attempts. The wait
// starts at baseDelay and doubles after every failure. Returns the last
// attempt's error when the budget runs out.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	delay := baseDelay
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if lastErr = operation(); lastErr == nil {
			return nil
		}
		if attempt == maxAttempts-1 {
			break
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
	return lastErr
}
