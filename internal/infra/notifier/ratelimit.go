package notifier

import (
	"context"

	"golang.org/x/time/rate"
)

// Webhook limits: 30 requests per minute with a small burst.
const (
	webhookRequestsPerSecond = 0.5
	webhookBurst             = 3
)

// RateLimiter is a token bucket shared by every WebhookNotifier built from
// the same registry, so per-submission notifiers still respect one budget.
type RateLimiter struct {
	rate    rate.Limit
	burst   int
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter allowing burst requests at once and
// refilling at requestsPerSecond.
//
// Example:
//
//	limiter := NewRateLimiter(2.0, 5)  // 2 req/s with burst of 5
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	r := rate.Limit(requestsPerSecond)
	return &RateLimiter{
		rate:    r,
		burst:   burst,
		limiter: rate.NewLimiter(r, burst),
	}
}

// NewWebhookRateLimiter returns a limiter tuned for chat webhooks.
func NewWebhookRateLimiter() *RateLimiter {
	return NewRateLimiter(webhookRequestsPerSecond, webhookBurst)
}

// Wait blocks until a token is available or ctx is done. It fails fast when
// the deadline would pass before a token frees up.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
