// Package circuitbreaker guards outbound calls with github.com/sony/gobreaker
// and exports each breaker's state as a Prometheus gauge.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

// Config tunes one breaker.
type Config struct {
	Name string

	// MaxRequests is the number of probe calls let through while half-open.
	MaxRequests uint32
	// Interval resets the closed-state counts; zero never resets.
	Interval time.Duration
	// OpenTimeout is how long the circuit stays open before probing.
	OpenTimeout time.Duration

	// The circuit trips once at least MinRequests calls were counted and
	// the failure ratio reaches FailureRatio.
	FailureRatio float64
	MinRequests  uint32

	// IsSuccessful reports whether err should count as a success.
	// nil counts every non-nil error as a failure.
	IsSuccessful func(err error) bool

	Logger *slog.Logger
}

// DefaultConfig trips at a 60% failure ratio over at least five calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  3,
		Interval:     30 * time.Second,
		OpenTimeout:  60 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

// WebhookConfig opens the moderation webhook circuit for a minute after
// five straight failures. Cancellation on the caller side is not held
// against the webhook.
func WebhookConfig() Config {
	cfg := DefaultConfig("moderation-webhook")
	cfg.MaxRequests = 1
	cfg.Interval = 2 * time.Minute
	cfg.FailureRatio = 1.0
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	}
	return cfg
}

// CircuitBreaker wraps a gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

func New(cfg Config) *CircuitBreaker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.OpenTimeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))
	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn unless the circuit rejects the call, in which case it
// returns gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }

// IsOpen reports whether calls are currently being rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
