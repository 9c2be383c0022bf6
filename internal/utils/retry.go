package utils

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to maxAttempts times, sleeping baseDelay,
// 2*baseDelay, 4*baseDelay, ... between attempts. Only errors
// accepted by retryable are retried; anything else surfaces
// immediately. The main user is profile creation right after
// account creation, where the store may not have committed the
// account row yet and reports a foreign key violation.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, retryable func(error) bool, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("giving up after %d attempts: %w", maxAttempts, err)
}
