// Package notify resolves which notifier handles moderation alerts and
// dispatches them with failure isolation.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"studyhub/internal/config"
	"studyhub/internal/infra/notifier"
)

// How a Service arrived at its notifier.
const (
	ResolvedInjected   = "injected"
	ResolvedConfigured = "configured"
	ResolvedDefault    = "default"
)

// ConfigSource supplies the current notifier binding.
type ConfigSource interface {
	Load() (config.NotifyConfig, error)
}

// ConfigSourceFunc adapts a function to ConfigSource.
type ConfigSourceFunc func() (config.NotifyConfig, error)

func (f ConfigSourceFunc) Load() (config.NotifyConfig, error) { return f() }

// StaticConfig returns a ConfigSource that always yields cfg.
func StaticConfig(cfg config.NotifyConfig) ConfigSource {
	return ConfigSourceFunc(func() (config.NotifyConfig, error) { return cfg, nil })
}

type options struct {
	notifier  notifier.Notifier
	registry  *Registry
	source    ConfigSource
	logger    *slog.Logger
	unmetered bool
}

// Option configures NewService.
type Option func(*options)

// WithNotifier injects a notifier, bypassing configuration entirely.
func WithNotifier(n notifier.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithRegistry sets the registry consulted for configured names.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithConfigSource sets where the binding is read from.
func WithConfigSource(s ConfigSource) Option {
	return func(o *options) { o.source = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithoutResolutionMetrics skips notifier_resolution_total. Health probes
// resolve on every poll and must not count as report resolutions.
func WithoutResolutionMetrics() Option {
	return func(o *options) { o.unmetered = true }
}

// Service wraps exactly one notifier, chosen at construction.
type Service struct {
	notifier   notifier.Notifier
	resolvedBy string
	logger     *slog.Logger
}

// NewService resolves a notifier. The first match wins:
//  1. a notifier passed with WithNotifier
//  2. the configured name looked up in the registry
//  3. the registry's log factory, or a LogNotifier on the configured path
//
// Resolution problems are logged and fall through to the next step; they
// never fail construction.
func NewService(opts ...Option) *Service {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	s := &Service{logger: o.logger}
	record := recordResolution
	if o.unmetered {
		record = func(string, string) {}
	}

	if o.notifier != nil {
		s.notifier, s.resolvedBy = o.notifier, ResolvedInjected
		record(s.notifier.Name(), s.resolvedBy)
		return s
	}

	if o.registry == nil {
		o.registry = DefaultRegistry(Dependencies{Logger: o.logger})
	}
	if o.source == nil {
		o.source = config.EnvSource{}
	}

	cfg, err := o.source.Load()
	if err != nil {
		o.logger.Warn("failed to load notifier configuration, using defaults",
			slog.Any("error", err))
		cfg = config.DefaultNotifyConfig()
	}

	if name := normalizeName(cfg.Notifier); name != "" {
		n, err := build(o.registry, name, cfg)
		if err == nil {
			s.notifier, s.resolvedBy = n, ResolvedConfigured
			record(n.Name(), s.resolvedBy)
			return s
		}
		o.logger.Warn("configured notifier unavailable, falling back to default",
			slog.String("notifier", name),
			slog.Any("error", err))
	}

	n, err := build(o.registry, notifier.NameLog, cfg)
	if err != nil {
		o.logger.Warn("default notifier factory unavailable, using log notifier directly",
			slog.Any("error", err))
		path := cfg.LogPath
		if path == "" {
			path = config.DefaultNotifyLogPath
		}
		n = notifier.NewLogNotifier(path, notifier.WithLogLogger(o.logger))
	}
	s.notifier, s.resolvedBy = n, ResolvedDefault
	record(n.Name(), s.resolvedBy)
	return s
}

func build(r *Registry, name string, cfg config.NotifyConfig) (notifier.Notifier, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNotifier, name)
	}
	n, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s notifier: %w", name, err)
	}
	if n == nil {
		return nil, fmt.Errorf("build %s notifier: %w", name, ErrNilNotifier)
	}
	return n, nil
}

// NotifierName returns the Name of the resolved notifier.
func (s *Service) NotifierName() string { return s.notifier.Name() }

// ResolvedBy returns one of ResolvedInjected, ResolvedConfigured or ResolvedDefault.
func (s *Service) ResolvedBy() string { return s.resolvedBy }

// Dispatch hands message and a copy of details to the notifier and returns
// its result unchanged. A panicking notifier yields false.
func (s *Service) Dispatch(ctx context.Context, message string, details notifier.Details) (ok bool) {
	name := s.notifier.Name()
	start := time.Now()

	defer func() {
		status := statusFailure
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "notifier panicked",
				slog.String("notifier", name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			ok = false
			status = statusPanic
		} else if ok {
			status = statusSuccess
		}
		recordDispatch(name, status, time.Since(start))
	}()

	return s.notifier.Notify(ctx, message, details.Clone())
}
