package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"studyhub/internal/config"
	"studyhub/internal/infra/notifier"
	"studyhub/internal/resilience/circuitbreaker"
)

// Factory builds a notifier from the current binding.
type Factory func(cfg config.NotifyConfig) (notifier.Notifier, error)

// Registry maps notifier names to factories. Names are matched
// case-insensitively with surrounding whitespace ignored.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalizeName(name)] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[normalizeName(name)]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dependencies are the long-lived resources shared by every notifier the
// built-in factories create. Zero values are allowed.
type Dependencies struct {
	HTTPClient  *http.Client
	RateLimiter *notifier.RateLimiter
	Breaker     *circuitbreaker.CircuitBreaker
	Logger      *slog.Logger
}

// NewWebhookHTTPClient returns the client shared by webhook notifiers. Its
// timeout is the largest configurable webhook timeout, so the per-request
// deadline from NotifyConfig.WebhookTimeout is the one that applies.
func NewWebhookHTTPClient() *http.Client {
	return &http.Client{Timeout: config.MaxWebhookTimeout}
}

// DefaultRegistry registers the built-in log, webhook and noop notifiers.
func DefaultRegistry(deps Dependencies) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := NewRegistry()
	r.Register(notifier.NameLog, func(cfg config.NotifyConfig) (notifier.Notifier, error) {
		path := cfg.LogPath
		if path == "" {
			path = config.DefaultNotifyLogPath
		}
		return notifier.NewLogNotifier(path, notifier.WithLogLogger(logger)), nil
	})
	r.Register(notifier.NameWebhook, func(cfg config.NotifyConfig) (notifier.Notifier, error) {
		if cfg.WebhookTimeout < 0 {
			return nil, fmt.Errorf("webhook timeout %s is negative", cfg.WebhookTimeout)
		}
		opts := []notifier.WebhookOption{notifier.WithWebhookLogger(logger)}
		if deps.HTTPClient != nil {
			opts = append(opts, notifier.WithHTTPClient(deps.HTTPClient))
		}
		if deps.RateLimiter != nil {
			opts = append(opts, notifier.WithRateLimiter(deps.RateLimiter))
		}
		if deps.Breaker != nil {
			opts = append(opts, notifier.WithCircuitBreaker(deps.Breaker))
		}
		return notifier.NewWebhookNotifier(notifier.WebhookConfig{
			URL:       cfg.WebhookURL,
			Timeout:   cfg.WebhookTimeout,
			Username:  cfg.WebhookUsername,
			AvatarURL: cfg.WebhookAvatarURL,
		}, opts...), nil
	})
	r.Register(notifier.NameNoop, func(config.NotifyConfig) (notifier.Notifier, error) {
		return notifier.NewNoOpNotifier(), nil
	})
	return r
}
