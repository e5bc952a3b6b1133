// Package storage defines the wiki file-system abstraction.
package storage

import "github.com/starford/wikiblocks/internal/models"

// Provider is the interface for wiki file operations.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.PageMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the content of path.
	Write(path string, content []byte) error
}
