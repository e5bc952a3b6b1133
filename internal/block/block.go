// Package block maintains machine-owned regions inside a page.
//
// A managed block is bounded by a start and an end marker line. Regenerating
// a block is a two-step pure transform over the page lines: Collapse turns
// every complete block back into a single placeholder line, then Inject
// replaces the first placeholder with freshly rendered lines. Running the
// pair twice yields the same lines as running it once.
package block

import (
	"strings"

	"github.com/starford/wikiblocks/internal/page"
)

// Markers identifies one feature's managed block.
type Markers struct {
	Start       string
	End         string
	Placeholder string
	// Comment is emitted as the second line of every rendered block.
	Comment string
}

var (
	TOC = Markers{
		Start:       "<!-- toc:start -->",
		End:         "<!-- toc:end -->",
		Placeholder: "__TOC__",
		Comment:     "<!-- This table of contents is generated automatically. Manual edits will be lost. -->",
	}
	Backlinks = Markers{
		Start:       "<!-- backlinks:start -->",
		End:         "<!-- backlinks:end -->",
		Placeholder: "__BACKLINKS__",
		Comment:     "<!-- This list of backlinks is generated automatically. Manual edits will be lost. -->",
	}
)

func (m Markers) placeholderLine() string {
	return m.Placeholder + "\n"
}

func (m Markers) isStart(line string) bool {
	return strings.TrimSpace(line) == m.Start
}

func (m Markers) isEnd(line string) bool {
	return strings.TrimSpace(line) == m.End
}

// IsPlaceholder reports whether line is the placeholder token, with or
// without its line terminator.
func (m Markers) IsPlaceholder(line string) bool {
	return strings.TrimSpace(page.Text(line)) == m.Placeholder
}

// Collapse replaces every complete start..end region with a single
// placeholder line and normalises existing placeholder lines to carry a
// trailing newline. A start marker without a matching end marker is kept
// verbatim. The input slice is not modified.
func Collapse(lines []string, m Markers) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case m.IsPlaceholder(line):
			out = append(out, m.placeholderLine())
		case m.isStart(line):
			end := -1
			for j := i + 1; j < len(lines); j++ {
				if m.isEnd(lines[j]) {
					end = j
					break
				}
			}
			if end < 0 {
				out = append(out, line)
				continue
			}
			out = append(out, m.placeholderLine())
			i = end
		default:
			out = append(out, line)
		}
	}
	return out
}

// Index returns the position of the first placeholder line, or -1.
func Index(lines []string, m Markers) int {
	for i, line := range lines {
		if m.IsPlaceholder(line) {
			return i
		}
	}
	return -1
}

// Inject replaces the first placeholder line with rendered. It reports
// false, and returns lines unchanged, when no placeholder is present.
func Inject(lines []string, m Markers, rendered []string) ([]string, bool) {
	i := Index(lines, m)
	if i < 0 {
		return lines, false
	}
	out := make([]string, 0, len(lines)-1+len(rendered))
	out = append(out, lines[:i]...)
	out = append(out, rendered...)
	out = append(out, lines[i+1:]...)
	return out, true
}

// Regenerate collapses the old block, renders a new one from the collapsed
// lines and injects it. Pages with neither block nor placeholder come back
// untouched with ok == false; render is not called for them.
func Regenerate(lines []string, m Markers, render func(collapsed []string) []string) (out []string, ok bool) {
	collapsed := Collapse(lines, m)
	if Index(collapsed, m) < 0 {
		return lines, false
	}
	return Inject(collapsed, m, render(collapsed))
}

// Render lays out a managed block: start marker, comment, blank line,
// header, blank line, items, blank line, end marker.
func Render(m Markers, header string, items []string) []string {
	out := make([]string, 0, len(items)+7)
	out = append(out,
		m.Start+"\n",
		m.Comment+"\n",
		"\n",
		header+"\n",
		"\n",
	)
	for _, item := range items {
		out = append(out, item+"\n")
	}
	return append(out, "\n", m.End+"\n")
}
