package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	retryAll := func(error) bool { return true }
	retryNone := func(error) bool { return false }

	tests := []struct {
		name          string
		maxAttempts   int
		retryable     func(error) bool
		failures      int
		wantCalls     int
		wantErr       bool
		wantGivingUp  bool
	}{
		{
			name:        "succeeds first try",
			maxAttempts: 3,
			retryable:   retryAll,
			failures:    0,
			wantCalls:   1,
		},
		{
			name:        "succeeds after retries",
			maxAttempts: 4,
			retryable:   retryAll,
			failures:    2,
			wantCalls:   3,
		},
		{
			name:         "exhausts attempts",
			maxAttempts:  3,
			retryable:    retryAll,
			failures:     5,
			wantCalls:    3,
			wantErr:      true,
			wantGivingUp: true,
		},
		{
			name:        "non-retryable stops immediately",
			maxAttempts: 5,
			retryable:   retryNone,
			failures:    5,
			wantCalls:   1,
			wantErr:     true,
		},
		{
			name:        "zero attempts clamps to one",
			maxAttempts: 0,
			retryable:   retryAll,
			failures:    0,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.maxAttempts, time.Millisecond, tt.retryable, func() error {
				calls++
				if calls <= tt.failures {
					return errTransient
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("Retry() calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantGivingUp {
				if err == nil || !strings.Contains(err.Error(), "giving up after 3 attempts") {
					t.Errorf("Retry() error = %v, want giving-up wrapper", err)
				}
				if !errors.Is(err, errTransient) {
					t.Errorf("Retry() error does not wrap the last failure: %v", err)
				}
			}
		})
	}
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 3, time.Hour, func(error) bool { return true }, func() error {
		calls++
		return errTransient
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("Retry() calls = %d, want 1", calls)
	}
}
