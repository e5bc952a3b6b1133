// Package generator runs the TOC and backlinks pipelines over a set of files.
package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/starford/wikiblocks/internal/backlinks"
	"github.com/starford/wikiblocks/internal/checksum"
	"github.com/starford/wikiblocks/internal/metrics"
	"github.com/starford/wikiblocks/internal/page"
	"github.com/starford/wikiblocks/internal/storage"
	"github.com/starford/wikiblocks/internal/toc"
)

// Report summarises one pipeline run.
type Report struct {
	Feature metrics.Feature
	// Processed counts every file read.
	Processed int
	// Updated lists the paths written, in processing order.
	Updated []string
	// Unchanged lists managed paths whose content was already current and
	// that were not rewritten (only when SkipUnchanged is set).
	Unchanged []string
}

// Runner executes the pipelines sequentially, one file at a time.
type Runner struct {
	store         storage.Provider
	logger        *slog.Logger
	out           io.Writer
	recorder      metrics.Recorder
	tocOpts       toc.Options
	backlinkOpts  backlinks.Options
	skipUnchanged bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithOutput sets where the per-file "Updated ..." lines are written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithTOCOptions sets TOC rendering options.
func WithTOCOptions(o toc.Options) Option {
	return func(r *Runner) { r.tocOpts = o }
}

// WithBacklinksOptions sets backlinks rendering options.
func WithBacklinksOptions(o backlinks.Options) Option {
	return func(r *Runner) { r.backlinkOpts = o }
}

// WithSkipUnchanged makes the runner leave files alone when the
// regenerated content equals what is already on disk.
func WithSkipUnchanged(skip bool) Option {
	return func(r *Runner) { r.skipUnchanged = skip }
}

// New creates a Runner reading and writing through store.
func New(store storage.Provider, opts ...Option) *Runner {
	r := &Runner{
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		out:      io.Discard,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TOC regenerates the table of contents of every file independently.
func (r *Runner) TOC(ctx context.Context, paths []string) (*Report, error) {
	start := time.Now()
	rep := &Report{Feature: metrics.FeatureTOC}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		p, err := r.load(path)
		if err != nil {
			return rep, err
		}
		rep.Processed++
		r.recorder.IncProcessed(rep.Feature)

		lines, ok := toc.Apply(p.Lines, r.tocOpts)
		if err := r.commit(rep, p, lines, ok, "TOC"); err != nil {
			return rep, err
		}
	}
	r.recorder.ObserveRunDuration(rep.Feature, time.Since(start))
	r.logger.Debug("toc: run finished",
		slog.Int("processed", rep.Processed),
		slog.Int("updated", len(rep.Updated)))
	return rep, nil
}

// Backlinks runs the two-pass backlinks pipeline: every file is loaded and
// the full graph is built before any file is rewritten.
func (r *Runner) Backlinks(ctx context.Context, paths []string) (*Report, backlinks.Graph, error) {
	start := time.Now()
	rep := &Report{Feature: metrics.FeatureBacklinks}

	pages, err := r.LoadPages(ctx, paths)
	if err != nil {
		return rep, nil, err
	}
	names := backlinks.BuildNameMap(paths)
	graph := backlinks.Build(pages, names)
	r.logger.Debug("backlinks: graph built",
		slog.Int("pages", len(pages)),
		slog.Int("targets", len(graph)))

	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return rep, graph, err
		}
		rep.Processed++
		r.recorder.IncProcessed(rep.Feature)

		lines, ok := backlinks.Apply(p.Lines, p.Name, graph, r.backlinkOpts)
		if err := r.commit(rep, p, lines, ok, "backlinks"); err != nil {
			return rep, graph, err
		}
	}
	r.recorder.ObserveRunDuration(rep.Feature, time.Since(start))
	r.logger.Debug("backlinks: run finished",
		slog.Int("processed", rep.Processed),
		slog.Int("updated", len(rep.Updated)))
	return rep, graph, nil
}

// All runs backlinks first, then TOC, over the same files.
func (r *Runner) All(ctx context.Context, paths []string) ([]*Report, backlinks.Graph, error) {
	bl, graph, err := r.Backlinks(ctx, paths)
	if err != nil {
		return []*Report{bl}, graph, err
	}
	tc, err := r.TOC(ctx, paths)
	return []*Report{bl, tc}, graph, err
}

// LoadPages reads every path into memory, in order.
func (r *Runner) LoadPages(ctx context.Context, paths []string) ([]*page.Page, error) {
	pages := make([]*page.Page, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := r.load(path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// PreviewTOC renders the page at path with a regenerated TOC without
// writing it. ok is false when the page has no TOC placeholder or block.
func (r *Runner) PreviewTOC(path string) (content []byte, ok bool, err error) {
	p, err := r.load(path)
	if err != nil {
		return nil, false, err
	}
	lines, ok := toc.Apply(p.Lines, r.tocOpts)
	return page.JoinLines(lines), ok, nil
}

func (r *Runner) load(path string) (*page.Page, error) {
	data, err := r.store.Read(path)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return page.New(path, data), nil
}

func (r *Runner) commit(rep *Report, p *page.Page, lines []string, managed bool, label string) error {
	if !managed {
		r.recorder.IncSkipped(rep.Feature)
		r.logger.Debug("generator: no placeholder",
			slog.String("feature", string(rep.Feature)),
			slog.String("path", p.Path))
		return nil
	}
	if r.skipUnchanged && checksum.Lines(lines) == checksum.Lines(p.Lines) {
		rep.Unchanged = append(rep.Unchanged, p.Path)
		return nil
	}
	content := page.JoinLines(lines)
	if err := r.store.Write(p.Path, content); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	p.Lines = lines
	rep.Updated = append(rep.Updated, p.Path)
	r.recorder.IncUpdated(rep.Feature)
	fmt.Fprintf(r.out, "Updated %s in %s\n", label, p.Path)
	return nil
}
