package internal

import (
	"context"
	"log/slog"

	"github.com/starford/wikiblocks/internal/mcpserver"
	"github.com/starford/wikiblocks/internal/metrics"
)

// ServeMCP regenerates the wiki once and then serves MCP over stdio. Stdout
// belongs to the protocol, so logs always go to the configured stderr.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	svc, closeFn, err := newService(cfg, logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := svc.Regenerate(ctx); err != nil {
		logger.Warn("initial regenerate failed", slog.String("error", err.Error()))
	}

	logger.Info("Serving MCP on stdio", slog.String("wiki", cfg.Wiki.Path))
	return mcpserver.New(svc, app.version).ServeStdio()
}
