// Package models defines the domain types shared by storage, index and API.
package models

import "time"

// PageMeta is a lightweight description of a Markdown page on disk.
type PageMeta struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link is a resolved edge: Source page links to Target page.
// Both ends are canonical page names.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
