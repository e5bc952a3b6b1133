// Package toc renders a table of contents block from a page's headings.
package toc

import (
	"fmt"
	"strings"

	"github.com/starford/wikiblocks/internal/block"
	"github.com/starford/wikiblocks/internal/parser"
)

// DefaultHeader is the header line used when Options.Header is empty.
const DefaultHeader = "**Table of Contents:**"

const indent = "    "

// Options controls rendering.
type Options struct {
	// Header is the line shown above the list.
	Header string
}

func (o Options) header() string {
	if o.Header == "" {
		return DefaultHeader
	}
	return o.Header
}

// Normalize shifts heading levels so the shallowest becomes 1. Relative
// differences and order are kept. An empty input yields an empty result.
func Normalize(headings []parser.Heading) []parser.Heading {
	if len(headings) == 0 {
		return nil
	}
	minLevel := headings[0].Level
	for _, h := range headings[1:] {
		minLevel = min(minLevel, h.Level)
	}
	out := make([]parser.Heading, len(headings))
	for i, h := range headings {
		out[i] = parser.Heading{Level: h.Level - (minLevel - 1), Title: h.Title}
	}
	return out
}

// Anchor derives the in-page link anchor for a heading title: lowercase,
// each space replaced by a hyphen, everything else kept. This must agree
// with the wiki host's own anchor generation.
func Anchor(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

// Items renders one nested list line per heading, indented four spaces per
// level below 1. Levels are expected to be normalised.
func Items(headings []parser.Heading) []string {
	items := make([]string, 0, len(headings))
	for _, h := range headings {
		items = append(items, fmt.Sprintf("%s- [%s](#%s)",
			strings.Repeat(indent, max(h.Level-1, 0)), h.Title, Anchor(h.Title)))
	}
	return items
}

// Render builds the complete managed TOC block.
func Render(headings []parser.Heading, opts Options) []string {
	return block.Render(block.TOC, opts.header(), Items(Normalize(headings)))
}

// Apply regenerates the TOC block of a page. Headings are read from the
// page after its previous block was collapsed. ok is false when the page
// asks for no TOC.
func Apply(lines []string, opts Options) (out []string, ok bool) {
	return block.Regenerate(lines, block.TOC, func(collapsed []string) []string {
		return Render(parser.ExtractHeadings(collapsed), opts)
	})
}
