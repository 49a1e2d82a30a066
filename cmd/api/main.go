package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	pgRepo "studyhub/internal/infra/adapter/persistence/postgres"
	"studyhub/internal/infra/db"
	"studyhub/internal/infra/notifier"
	"studyhub/internal/observability/logging"
	"studyhub/internal/observability/tracing"
	"studyhub/internal/resilience/circuitbreaker"
	"studyhub/pkg/config"

	notifyUC "studyhub/internal/usecase/notify"
	reportUC "studyhub/internal/usecase/report"

	hhttp "studyhub/internal/handler/http"
	hauth "studyhub/internal/handler/http/auth"
	hreport "studyhub/internal/handler/http/report"
	"studyhub/internal/handler/http/requestid"
)

const (
	defaultAddr        = ":8080"
	defaultBaseURL     = "http://localhost:8080"
	maxRequestBodySize = 1 << 20
	shutdownTimeout    = 10 * time.Second
)

func main() {
	logger := initLogger()
	secret := validateJWTSecret(logger)

	shutdownTracing := tracing.Init()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to stop tracer provider", slog.Any("error", err))
		}
	}()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := config.GetEnvString("VERSION", "dev")
	handler := applyMiddleware(logger, setupRoutes(logger, database, version, secret))

	if err := runServer(logger, handler, version); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger installs the context-aware JSON logger as the slog default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// validateJWTSecret refuses to start with a missing or guessable secret.
func validateJWTSecret(logger *slog.Logger) []byte {
	secret := os.Getenv("JWT_SECRET")
	if err := hauth.ValidateJWTSecret(secret); err != nil {
		logger.Error("JWT_SECRET validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	return []byte(secret)
}

// initDatabase opens the pool, runs migrations and exports pool statistics.
func initDatabase(logger *slog.Logger) *sql.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Open(ctx, os.Getenv("DATABASE_URL"), db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	prometheus.MustRegister(collectors.NewDBStatsCollector(database, "studyhub"))
	return database
}

// newNotificationFactory shares one HTTP client, rate limiter and circuit
// breaker across submissions while re-resolving notifier config each time.
func newNotificationFactory(logger *slog.Logger) (reportUC.ServiceFactory, hhttp.NotifierProbe) {
	registry := notifyUC.DefaultRegistry(notifyUC.Dependencies{
		HTTPClient:  notifyUC.NewWebhookHTTPClient(),
		RateLimiter: notifier.NewWebhookRateLimiter(),
		Breaker:     circuitbreaker.New(circuitbreaker.WebhookConfig()),
		Logger:      logger,
	})
	newService := func() *notifyUC.Service {
		return notifyUC.NewService(notifyUC.WithRegistry(registry), notifyUC.WithLogger(logger))
	}

	factory := func() reportUC.Dispatcher { return newService() }
	probe := func() string {
		return notifyUC.NewService(
			notifyUC.WithRegistry(registry),
			notifyUC.WithLogger(logger),
			notifyUC.WithoutResolutionMetrics(),
		).NotifierName()
	}
	return factory, probe
}

// setupRoutes registers the public probes and the authenticated report API.
func setupRoutes(logger *slog.Logger, database *sql.DB, version string, secret []byte) *http.ServeMux {
	factory, probe := newNotificationFactory(logger)

	reportSvc := &reportUC.Service{
		Repo:          pgRepo.NewReportRepo(database),
		Notifications: factory,
		Links:         reportUC.Links{BaseURL: config.GetEnvString("APP_BASE_URL", defaultBaseURL)},
		Logger:        logger,
	}
	authn := hauth.NewAuthenticator(secret, hauth.WithLogger(logger))

	mux := http.NewServeMux()
	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version, Notifier: probe, Logger: logger})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	hreport.Register(mux, hreport.SubmitHandler{Svc: reportSvc, Logger: logger}, authn.Middleware)
	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Body Limit → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(maxRequestBodySize)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer serves until SIGINT or SIGTERM and then drains connections.
func runServer(logger *slog.Logger, handler http.Handler, version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := config.GetEnvString("HTTP_ADDR", defaultAddr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}
