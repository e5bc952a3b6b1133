// Package page models a Markdown wiki page as an ordered list of lines.
package page

import (
	"path/filepath"
	"strings"
)

// Page is a single Markdown document loaded into memory.
type Page struct {
	Path  string
	Name  string
	Lines []string
}

// New builds a Page from raw file content.
func New(path string, data []byte) *Page {
	return &Page{
		Path:  path,
		Name:  NameFromPath(path),
		Lines: SplitLines(data),
	}
}

// Bytes re-joins the page lines.
func (p *Page) Bytes() []byte {
	return JoinLines(p.Lines)
}

// NameFromPath derives the display name of a page from its file name:
// directory and extension are dropped and hyphens become spaces.
//
//	"wiki/My-Page.md" -> "My Page"
func NameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "-", " ")
}

// SplitLines splits data into lines that keep their "\n" terminator.
// "\r\n" and lone "\r" are read as "\n". The last line has no terminator
// when the data does not end with a newline.
func SplitLines(data []byte) []string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines concatenates lines back into file content.
func JoinLines(lines []string) []byte {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
	}
	return []byte(b.String())
}

// Text returns line without its line terminator.
func Text(line string) string {
	return strings.TrimRight(line, "\r\n")
}
