package web

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a") {
		t.Error("third request within the window should be rejected")
	}
	if !rl.allow("b") {
		t.Error("budgets are per IP")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.allow("a") {
		t.Error("budget should reset after the window")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	rl.stop()
	rl.stop()
}
