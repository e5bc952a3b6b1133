package index

import "github.com/starford/wikiblocks/internal/models"

// LinkIndex defines the read/write surface of the link index.
// Consumers should depend on this interface rather than the concrete *DB type.
type LinkIndex interface {
	Replace(pages []models.PageMeta, links []models.Link) error
	Pages() ([]models.PageMeta, error)
	PageByName(name string) (*models.PageMeta, error)
	Backlinks(target string) ([]string, error)
	Links() ([]models.Link, error)
	Close() error
}

// Verify *DB satisfies LinkIndex at compile time.
var _ LinkIndex = (*DB)(nil)
