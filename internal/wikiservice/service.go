// Package wikiservice coordinates storage, the pipelines and the link index
// for the long-running surfaces (HTTP, MCP, watch).
package wikiservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/starford/wikiblocks/internal/apperr"
	"github.com/starford/wikiblocks/internal/backlinks"
	"github.com/starford/wikiblocks/internal/generator"
	"github.com/starford/wikiblocks/internal/index"
	"github.com/starford/wikiblocks/internal/models"
	"github.com/starford/wikiblocks/internal/storage"
)

// PageDetail is a page together with the pages linking to it.
type PageDetail struct {
	Name      string   `json:"name"`
	Path      string   `json:"path,omitempty"`
	Backlinks []string `json:"backlinks"`
}

// Graph is the whole link graph.
type Graph struct {
	Pages []models.PageMeta `json:"pages"`
	Links []models.Link     `json:"links"`
}

// Notifier is told which paths a pipeline run rewrote.
type Notifier func(feature string, paths []string)

// Service runs pipelines over every page of one wiki directory.
type Service struct {
	store    storage.Provider
	runner   *generator.Runner
	db       index.LinkIndex
	logger   *slog.Logger
	notifier Notifier

	// runs are sequential; concurrent runs over the same files are unsafe.
	mu sync.Mutex
}

// NewService creates a new wiki service.
func NewService(store storage.Provider, runner *generator.Runner, db index.LinkIndex, logger *slog.Logger) *Service {
	return &Service{store: store, runner: runner, db: db, logger: logger}
}

// SetNotifier registers n to be called after every successful Regenerate.
func (s *Service) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Regenerate runs backlinks then TOC over every page and refreshes the
// link index from the resulting graph.
func (s *Service) Regenerate(ctx context.Context) ([]*generator.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(metas))
	for i, m := range metas {
		paths[i] = m.Path
	}

	reports, graph, err := s.runner.All(ctx, paths)
	if err != nil {
		return reports, fmt.Errorf("wikiservice: regenerate: %w", err)
	}

	// Checksums changed for every rewritten page.
	if metas, err = s.store.List(""); err != nil {
		return reports, err
	}
	if err := s.db.Replace(metas, graph.Edges()); err != nil {
		return reports, err
	}
	s.logger.Info("wiki regenerated",
		slog.Int("pages", len(metas)),
		slog.Int("backlinks_updated", len(reports[0].Updated)),
		slog.Int("toc_updated", len(reports[1].Updated)))
	if s.notifier != nil {
		for _, r := range reports {
			s.notifier(string(r.Feature), r.Updated)
		}
	}
	return reports, nil
}

// Pages lists indexed pages.
func (s *Service) Pages(_ context.Context) ([]models.PageMeta, error) {
	pages, err := s.db.Pages()
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []models.PageMeta{}
	}
	return pages, nil
}

// Backlinks resolves name case-insensitively against known pages and
// returns the sorted list of pages linking to it. Unknown names are looked
// up verbatim, matching how unresolved links are stored.
func (s *Service) Backlinks(_ context.Context, name string) (*PageDetail, error) {
	detail := &PageDetail{Name: name}
	p, err := s.db.PageByName(name)
	switch {
	case err == nil:
		detail.Name, detail.Path = p.Name, p.Path
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}
	bl, err := s.db.Backlinks(detail.Name)
	if err != nil {
		return nil, err
	}
	if bl == nil {
		bl = []string{}
	}
	backlinks.Sort(bl)
	detail.Backlinks = bl
	return detail, nil
}

// Graph returns all pages and links.
func (s *Service) Graph(_ context.Context) (*Graph, error) {
	pages, err := s.db.Pages()
	if err != nil {
		return nil, err
	}
	links, err := s.db.Links()
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []models.PageMeta{}
	}
	if links == nil {
		links = []models.Link{}
	}
	return &Graph{Pages: pages, Links: links}, nil
}

// PreviewTOC renders path with a fresh TOC without writing it. managed is
// false when the page asks for no TOC.
func (s *Service) PreviewTOC(_ context.Context, path string) (content []byte, managed bool, err error) {
	content, managed, err = s.runner.PreviewTOC(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, apperr.ErrNotFound
	}
	return content, managed, err
}
