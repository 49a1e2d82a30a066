package notifier

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("TC-1: should allow request within rate limit", func(t *testing.T) {
		limiter := NewRateLimiter(10.0, 5)

		if err := limiter.Wait(context.Background()); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("TC-2: should fail when the deadline is shorter than the refill", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(1.0, 1)
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("first request should succeed: %v", err)
		}

		// Act
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		err := limiter.Wait(ctx)

		// Assert
		if err == nil {
			t.Error("expected rate limit error, but request succeeded")
		}
	})

	t.Run("TC-3: should handle burst requests immediately", func(t *testing.T) {
		limiter := NewRateLimiter(2.0, 5)

		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("burst request %d should succeed: %v", i+1, err)
			}
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("expected burst requests to complete quickly, but took %v", elapsed)
		}
	})

	t.Run("TC-4: should respect context cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(1.0, 1)
		_ = limiter.Wait(context.Background())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := limiter.Wait(ctx); err == nil {
			t.Error("expected cancellation error, but request succeeded")
		}
	})
}

func TestNewWebhookRateLimiter(t *testing.T) {
	limiter := NewWebhookRateLimiter()

	if limiter.burst != webhookBurst {
		t.Errorf("expected burst=%d, got %d", webhookBurst, limiter.burst)
	}
	if float64(limiter.rate) != webhookRequestsPerSecond {
		t.Errorf("expected rate=%f, got %f", webhookRequestsPerSecond, float64(limiter.rate))
	}
}
