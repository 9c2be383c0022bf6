package security

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Allow() request %d = false, want true", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Allow() over limit = true, want false")
	}

	// Other clients keep their own bucket.
	if !rl.Allow("10.0.0.2") {
		t.Error("Allow() for a fresh client = false, want true")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("Allow() first request = false, want true")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("Allow() second request = true, want false")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Error("Allow() after window = false, want true")
	}
}
