package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/wikiblocks/internal/generator"
	"github.com/starford/wikiblocks/internal/storage"
	"github.com/starford/wikiblocks/internal/watcher"
)

// Watch regenerates every page under the configured wiki directory once,
// then again after each burst of changes, until ctx is cancelled. Files
// whose managed blocks are already current are left untouched, so the
// watcher does not react to its own writes.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	if _, err := os.Stat(cfg.Wiki.Path); err != nil {
		return fmt.Errorf("wiki dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Wiki.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	runner := generator.New(store,
		generator.WithLogger(logger),
		generator.WithOutput(app.stdout),
		generator.WithTOCOptions(cfg.TOC.Options()),
		generator.WithBacklinksOptions(cfg.Backlinks.Options()),
		generator.WithSkipUnchanged(true),
	)

	run := func(ctx context.Context) error {
		metas, err := store.List("")
		if err != nil {
			return fmt.Errorf("list pages: %w", err)
		}
		paths := make([]string, len(metas))
		for i, m := range metas {
			paths[i] = m.Path
		}
		_, _, err = runner.All(ctx, paths)
		return err
	}

	if err := run(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	logger.Info("Watching wiki", slog.String("path", store.Root()))
	return watcher.Watch(ctx, store.Root(), cfg.Watch.Debounce, logger, run)
}
