// Package selfcheck holds the fixture checks run by "toc test" and
// "backlinks test". They exercise the pure transforms only and never touch
// the filesystem.
package selfcheck

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/starford/wikiblocks/internal/backlinks"
	"github.com/starford/wikiblocks/internal/page"
	"github.com/starford/wikiblocks/internal/parser"
	"github.com/starford/wikiblocks/internal/toc"
)

// ErrFailed is returned when at least one check fails.
var ErrFailed = errors.New("selfcheck: checks failed")

// Check is a named fixture check. It returns nil on success.
type Check struct {
	Name string
	Run  func() error
}

// TOCChecks returns the checks for the TOC pipeline.
func TOCChecks() []Check {
	return []Check{
		{"anchor", checkAnchor},
		{"normalize", checkNormalize},
		{"toc round trip", checkTOCRoundTrip},
		{"toc without placeholder", checkTOCNoPlaceholder},
	}
}

// BacklinksChecks returns the checks for the backlinks pipeline.
func BacklinksChecks() []Check {
	return []Check{
		{"sort", checkSort},
		{"resolve", checkResolve},
		{"backlinks round trip", checkBacklinksRoundTrip},
	}
}

// Run executes checks in order and reports each one on w. It returns
// ErrFailed if any check failed.
func Run(w io.Writer, checks []Check) error {
	failed := 0
	for _, c := range checks {
		if err := c.Run(); err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", c.Name, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s\n", c.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFailed, failed, len(checks))
	}
	fmt.Fprintf(w, "All %d checks passed.\n", len(checks))
	return nil
}

func checkAnchor() error {
	cases := map[string]string{
		"Hello, World":    "hello,-world",
		"Getting Started": "getting-started",
		"API":             "api",
	}
	for in, want := range cases {
		if got := toc.Anchor(in); got != want {
			return fmt.Errorf("Anchor(%q) = %q, want %q", in, got, want)
		}
	}
	return nil
}

func checkNormalize() error {
	in := []parser.Heading{{Level: 2, Title: "a"}, {Level: 4, Title: "b"}, {Level: 3, Title: "c"}}
	got := toc.Normalize(in)
	want := []int{1, 3, 2}
	for i, h := range got {
		if h.Level != want[i] {
			return fmt.Errorf("level[%d] = %d, want %d", i, h.Level, want[i])
		}
	}
	return nil
}

func checkTOCRoundTrip() error {
	lines := page.SplitLines([]byte("# Title\n__TOC__\n## Usage\n### Flags\n"))
	first, ok := toc.Apply(lines, toc.Options{})
	if !ok {
		return errors.New("placeholder not found")
	}
	text := string(page.JoinLines(first))
	for _, item := range []string{
		"- [Title](#title)\n",
		"    - [Usage](#usage)\n",
		"        - [Flags](#flags)\n",
	} {
		if !strings.Contains(text, item) {
			return fmt.Errorf("missing item %q", item)
		}
	}
	second, _ := toc.Apply(first, toc.Options{})
	if !slices.Equal(first, second) {
		return errors.New("second run changed the document")
	}
	return nil
}

func checkTOCNoPlaceholder() error {
	lines := page.SplitLines([]byte("# Title\nbody\n"))
	out, ok := toc.Apply(lines, toc.Options{})
	if ok {
		return errors.New("reported a managed block without a placeholder")
	}
	if !slices.Equal(out, lines) {
		return errors.New("document changed without a placeholder")
	}
	return nil
}

func checkSort() error {
	names := []string{"beta", "Alpha", "alpha", "Gamma"}
	backlinks.Sort(names)
	want := []string{"Alpha", "alpha", "beta", "Gamma"}
	if !slices.Equal(names, want) {
		return fmt.Errorf("Sort = %v, want %v", names, want)
	}
	return nil
}

func checkResolve() error {
	names := backlinks.BuildNameMap([]string{"wiki/My-Page.md", "wiki/Home.md"})
	if got := names.Resolve("my page"); got != "My Page" {
		return fmt.Errorf("Resolve(%q) = %q, want %q", "my page", got, "My Page")
	}
	if got := names.Resolve("Nowhere"); got != "Nowhere" {
		return fmt.Errorf("Resolve(%q) = %q, want it unchanged", "Nowhere", got)
	}
	return nil
}

func checkBacklinksRoundTrip() error {
	pages := []*page.Page{
		page.New("Home.md", []byte("see [[my page]]\n")),
		page.New("My-Page.md", []byte("# My Page\n__BACKLINKS__\n")),
	}
	paths := []string{pages[0].Path, pages[1].Path}
	g := backlinks.Build(pages, backlinks.BuildNameMap(paths))

	first, ok := backlinks.Apply(pages[1].Lines, pages[1].Name, g, backlinks.Options{})
	if !ok {
		return errors.New("placeholder not found")
	}
	if !strings.Contains(string(page.JoinLines(first)), "- [[Home]]\n") {
		return errors.New("missing backlink to Home")
	}

	// The rendered block must not feed back into the graph.
	pages[1].Lines = first
	g2 := backlinks.Build(pages, backlinks.BuildNameMap(paths))
	second, _ := backlinks.Apply(first, pages[1].Name, g2, backlinks.Options{})
	if !slices.Equal(first, second) {
		return errors.New("second run changed the document")
	}
	return nil
}
