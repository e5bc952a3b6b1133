// Package parser extracts headings and wikilinks from Markdown lines.
//
// Detection is line-oriented: every line is matched on its own, and lines
// that do not match are ordinary text. Fenced code blocks are not special.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/wikiblocks/internal/page"
)

var (
	headingRe  = regexp.MustCompile(`^(#+)\s+(\S.*)$`)
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
)

// Heading is one ATX heading in document order.
type Heading struct {
	Level int
	Title string
}

// ExtractHeadings returns every line that starts with one or more '#'
// followed by whitespace and text.
func ExtractHeadings(lines []string) []Heading {
	var out []Heading
	for _, line := range lines {
		m := headingRe.FindStringSubmatch(page.Text(line))
		if m == nil {
			continue
		}
		out = append(out, Heading{
			Level: len(m[1]),
			Title: strings.TrimSpace(m[2]),
		})
	}
	return out
}

// ExtractLinks returns the targets of all [[...]] references, in order of
// appearance. In [[display|target]] the target follows the first pipe.
// Case is preserved; blank targets are dropped.
func ExtractLinks(lines []string) []string {
	var out []string
	for _, line := range lines {
		for _, m := range wikilinkRe.FindAllStringSubmatch(line, -1) {
			target := m[1]
			if i := strings.Index(target, "|"); i >= 0 {
				target = target[i+1:]
			}
			target = strings.TrimSpace(target)
			if target == "" {
				continue
			}
			out = append(out, target)
		}
	}
	return out
}
