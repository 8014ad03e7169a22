package providers

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterTryConsume(t *testing.T) {
	limiter := NewRateLimiter(2)

	if !limiter.TryConsume() {
		t.Error("first consume should succeed")
	}
	if !limiter.TryConsume() {
		t.Error("second consume should succeed")
	}
	if limiter.TryConsume() {
		t.Error("third consume should fail, bucket empty")
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	limiter := NewRateLimiter(1)
	if !limiter.TryConsume() {
		t.Fatal("initial token should be available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected context error while waiting on empty bucket")
	}
}

func TestRateLimiterWaitImmediate(t *testing.T) {
	limiter := NewRateLimiter(60)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRateLimiterDefaultsOnInvalidRate(t *testing.T) {
	limiter := NewRateLimiter(0)
	if limiter.requestsPerMinute != 60 {
		t.Errorf("expected default of 60, got %d", limiter.requestsPerMinute)
	}
}
