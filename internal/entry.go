// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/starford/wikiblocks/internal/api"
	"github.com/starford/wikiblocks/internal/generator"
	"github.com/starford/wikiblocks/internal/index"
	"github.com/starford/wikiblocks/internal/metrics"
	"github.com/starford/wikiblocks/internal/sse"
	"github.com/starford/wikiblocks/internal/storage"
	"github.com/starford/wikiblocks/internal/watcher"
	"github.com/starford/wikiblocks/internal/wikiservice"
)

var errConfigRequired = errors.New("config is required")

// newService opens the store and the link index for the configured wiki
// and wires a regenerating service over them. The returned func closes the
// index.
func newService(cfg *Config, logger *slog.Logger, rec metrics.Recorder) (*wikiservice.Service, func(), error) {
	if err := os.MkdirAll(cfg.Wiki.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create wiki dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Wiki.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}

	runner := generator.New(store,
		generator.WithLogger(logger),
		generator.WithRecorder(rec),
		generator.WithTOCOptions(cfg.TOC.Options()),
		generator.WithBacklinksOptions(cfg.Backlinks.Options()),
		generator.WithSkipUnchanged(true),
	)

	svc := wikiservice.NewService(store, runner, db, logger)
	return svc, func() { _ = db.Close() }, nil
}

// Serve regenerates the wiki, keeps it current with a file watcher and
// exposes the link index over HTTP until ctx is cancelled or a shutdown
// signal arrives.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("wiki_path", cfg.Wiki.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	reg := prometheus.NewRegistry()
	svc, closeFn, err := newService(cfg, logger, metrics.NewPrometheusRecorder(reg))
	if err != nil {
		return err
	}
	defer closeFn()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	svc.SetNotifier(broker.PublishRun)

	// Run initial regeneration.
	if _, err := svc.Regenerate(ctx); err != nil {
		logger.Warn("initial regenerate failed", slog.String("error", err.Error()))
	}

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.HTTPHandler(reg))

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher; every burst re-runs both pipelines.
	g.Go(func() error {
		return watcher.Watch(gCtx, cfg.Wiki.Path, cfg.Watch.Debounce, logger, func(ctx context.Context) error {
			_, err := svc.Regenerate(ctx)
			return err
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops along with the server.
var errShutdown = errors.New("shutdown")
