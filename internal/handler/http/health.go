// Package http provides the HTTP middleware and operational endpoints of the
// studyhub API: health and readiness probes, request logging, panic recovery
// and Prometheus metrics. Report submission lives in the report subpackage.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"studyhub/internal/handler/http/respond"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	// poolSaturation is the in-use share of MaxOpenConns reported as degraded.
	poolSaturation = 0.8

	healthTimeout = 5 * time.Second
	readyTimeout  = 2 * time.Second
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"` // RFC 3339, UTC
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is one named check: healthy, degraded or unhealthy.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// NotifierProbe reports which notifier a report submission would use with
// the current configuration.
type NotifierProbe func() string

// HealthHandler reports database connectivity, pool statistics and the
// resolved moderation notifier. Only an unhealthy database turns the
// response into a 503.
type HealthHandler struct {
	DB       *sql.DB
	Version  string
	Notifier NotifierProbe
	Logger   *slog.Logger
	now      func() time.Time
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	checks := map[string]CheckStatus{"database": h.checkDatabase(ctx)}
	if h.Notifier != nil {
		checks["notifier"] = h.checkNotifier()
	}

	resp := HealthResponse{
		Status:    statusHealthy,
		Timestamp: h.clock()().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if checks["database"].Status == statusUnhealthy {
		resp.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
		h.logger().WarnContext(ctx, "health check failed",
			slog.String("database", checks["database"].Message))
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: respond.SanitizeError(err)}
	}
	return poolCheck(h.DB.Stats())
}

// poolCheck grades connection pool statistics. An unbounded pool is
// degraded because saturation cannot be measured.
func poolCheck(stats sql.DBStats) CheckStatus {
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "connection pool max connections not configured",
			Details: details,
		}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections)
	details["utilization_percent"] = utilization * 100
	if utilization >= poolSaturation {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

// checkNotifier is informational: an unusable configured notifier falls
// back to the log notifier at submission time.
func (h *HealthHandler) checkNotifier() CheckStatus {
	name := h.Notifier()
	if name == "" {
		return CheckStatus{Status: statusDegraded, Message: "no notifier resolved"}
	}
	return CheckStatus{Status: statusHealthy, Details: map[string]any{"name": name}}
}

func (h *HealthHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *HealthHandler) clock() func() time.Time {
	if h.now != nil {
		return h.now
	}
	return time.Now
}

// ReadyHandler answers readiness probes once the database accepts connections.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	writeText(w, "ready")
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "alive")
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
