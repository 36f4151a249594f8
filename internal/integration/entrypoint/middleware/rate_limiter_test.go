package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiterWithConfig(2, time.Hour)

	if !rl.allow("10.0.0.1") {
		t.Fatal("first attempt should be allowed")
	}
	if !rl.allow("10.0.0.1") {
		t.Fatal("second attempt should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third attempt should be denied")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("attempts are counted per key")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiterWithConfig(1, 10*time.Millisecond)

	if !rl.allow("10.0.0.1") {
		t.Fatal("first attempt should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("second attempt inside the window should be denied")
	}

	time.Sleep(20 * time.Millisecond)

	if !rl.allow("10.0.0.1") {
		t.Error("attempt after the window should be allowed again")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiterWithConfig(1, 10*time.Millisecond)

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	time.Sleep(20 * time.Millisecond)
	rl.allow("10.0.0.3")

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.entries["10.0.0.1"]; ok {
		t.Error("expired entry 10.0.0.1 should be removed")
	}
	if _, ok := rl.entries["10.0.0.2"]; ok {
		t.Error("expired entry 10.0.0.2 should be removed")
	}
	if _, ok := rl.entries["10.0.0.3"]; !ok {
		t.Error("live entry 10.0.0.3 should survive cleanup")
	}
}
