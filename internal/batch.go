package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/wikiblocks/internal/generator"
	"github.com/starford/wikiblocks/internal/storage"
)

// Pipelines accepted by Generate.
const (
	PipelineTOC       = "toc"
	PipelineBacklinks = "backlinks"
	PipelineAll       = "all"
)

// Generate runs one pipeline over the given files and writes every managed
// file back, printing one "Updated ..." line per write to stdout. Paths are
// used as given, relative to the working directory.
func Generate(ctx context.Context, pipeline string, paths []string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	runner := generator.New(storage.NewLocal(),
		generator.WithLogger(logger),
		generator.WithOutput(app.stdout),
		generator.WithTOCOptions(cfg.TOC.Options()),
		generator.WithBacklinksOptions(cfg.Backlinks.Options()),
	)

	switch pipeline {
	case PipelineTOC:
		_, err = runner.TOC(ctx, paths)
	case PipelineBacklinks:
		_, _, err = runner.Backlinks(ctx, paths)
	case PipelineAll:
		_, _, err = runner.All(ctx, paths)
	default:
		return fmt.Errorf("unknown pipeline %q", pipeline)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", pipeline, err)
	}
	return nil
}
