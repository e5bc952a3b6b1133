// Package backlinks builds the cross-page link graph and renders, for each
// page, the list of pages that link to it.
//
// The graph must be complete before any page is rendered: a page processed
// early would otherwise miss links from pages that come after it. Build the
// graph with Build over all pages first, then call Apply per page.
package backlinks

import (
	"cmp"
	"slices"
	"strings"

	"github.com/starford/wikiblocks/internal/block"
	"github.com/starford/wikiblocks/internal/models"
	"github.com/starford/wikiblocks/internal/page"
	"github.com/starford/wikiblocks/internal/parser"
)

// DefaultHeader is the header line used when Options.Header is empty.
const DefaultHeader = "## Backlinks"

// Options controls rendering.
type Options struct {
	Header string
}

func (o Options) header() string {
	if o.Header == "" {
		return DefaultHeader
	}
	return o.Header
}

// NameMap maps a lowercased page name to its canonical display name.
type NameMap map[string]string

// BuildNameMap derives canonical names from file paths. When two paths fold
// to the same lowercase name the later one wins.
func BuildNameMap(paths []string) NameMap {
	names := make(NameMap, len(paths))
	for _, p := range paths {
		name := page.NameFromPath(p)
		names[strings.ToLower(name)] = name
	}
	return names
}

// Resolve returns the canonical name for a link target. Unknown targets are
// returned exactly as written.
func (n NameMap) Resolve(target string) string {
	if name, ok := n[strings.ToLower(target)]; ok {
		return name
	}
	return target
}

// Graph maps a canonical target name to the set of page names linking to it.
type Graph map[string]map[string]struct{}

// Add records that source links to target.
func (g Graph) Add(target, source string) {
	set, ok := g[target]
	if !ok {
		set = make(map[string]struct{})
		g[target] = set
	}
	set[source] = struct{}{}
}

// Linking returns the pages linking to name, sorted case-insensitively.
// Unknown names yield an empty slice.
func (g Graph) Linking(name string) []string {
	set := g[name]
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	Sort(out)
	return out
}

// Edges flattens the graph into links ordered by target, then source.
func (g Graph) Edges() []models.Link {
	var out []models.Link
	for target, set := range g {
		for source := range set {
			out = append(out, models.Link{Source: source, Target: target})
		}
	}
	slices.SortFunc(out, func(a, b models.Link) int {
		return cmp.Or(compareNames(a.Target, b.Target), compareNames(a.Source, b.Source))
	})
	return out
}

// Build scans every page for outbound links and returns the backlink graph.
// Rendered backlinks blocks are collapsed first so they never count as
// outbound links of the page that hosts them.
func Build(pages []*page.Page, names NameMap) Graph {
	g := make(Graph)
	for _, p := range pages {
		own := block.Collapse(p.Lines, block.Backlinks)
		for _, target := range parser.ExtractLinks(own) {
			g.Add(names.Resolve(target), p.Name)
		}
	}
	return g
}

// Sort orders names by their lowercase form. Names equal under case
// folding fall back to byte order so output stays deterministic.
func Sort(names []string) {
	slices.SortFunc(names, compareNames)
}

func compareNames(a, b string) int {
	return cmp.Or(cmp.Compare(strings.ToLower(a), strings.ToLower(b)), cmp.Compare(a, b))
}

// Items renders one wikilink list line per name.
func Items(names []string) []string {
	items := make([]string, 0, len(names))
	for _, n := range names {
		items = append(items, "- [["+n+"]]")
	}
	return items
}

// Render builds the complete managed backlinks block for the given
// linking pages.
func Render(linking []string, opts Options) []string {
	sorted := slices.Clone(linking)
	Sort(sorted)
	return block.Render(block.Backlinks, opts.header(), Items(sorted))
}

// Apply regenerates the backlinks block of the page called name. ok is
// false when the page asks for no backlinks.
func Apply(lines []string, name string, g Graph, opts Options) (out []string, ok bool) {
	return block.Regenerate(lines, block.Backlinks, func([]string) []string {
		return Render(g.Linking(name), opts)
	})
}
