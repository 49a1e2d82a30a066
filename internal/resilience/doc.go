// Package resilience groups the fault tolerance helpers used around outbound
// calls. The circuitbreaker subpackage wraps github.com/sony/gobreaker and is
// used to stop hammering the moderation webhook while it is failing.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.WebhookConfig())
//	_, err := cb.Execute(func() (interface{}, error) {
//	    return nil, postWebhook()
//	})
package resilience
