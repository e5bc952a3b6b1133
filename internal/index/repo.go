package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/wikiblocks/internal/apperr"
	"github.com/starford/wikiblocks/internal/models"
)

// Replace swaps the whole index content for pages and links in one
// transaction. Each run recomputes the graph from scratch, so there is no
// incremental update.
func (db *DB) Replace(pages []models.PageMeta, links []models.Link) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM pages`); err != nil {
		return fmt.Errorf("index: clear pages: %w", err)
	}

	pageStmt, err := tx.Prepare(`INSERT OR REPLACE INTO pages (path, name, checksum, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare page insert: %w", err)
	}
	defer pageStmt.Close()
	for _, p := range pages {
		if _, err := pageStmt.Exec(p.Path, p.Name, p.Checksum, p.UpdatedAt); err != nil {
			return fmt.Errorf("index: insert page: %w", err)
		}
	}

	linkStmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer linkStmt.Close()
	for _, l := range links {
		if _, err := linkStmt.Exec(l.Source, l.Target); err != nil {
			return fmt.Errorf("index: insert link: %w", err)
		}
	}

	return tx.Commit()
}

// Pages returns every indexed page ordered by path.
func (db *DB) Pages() ([]models.PageMeta, error) {
	rows, err := db.conn.Query(`SELECT path, name, checksum, updated_at FROM pages ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: pages: %w", err)
	}
	defer rows.Close()

	var out []models.PageMeta
	for rows.Next() {
		var p models.PageMeta
		if err := rows.Scan(&p.Path, &p.Name, &p.Checksum, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PageByName finds a page by display name, ignoring case. It returns
// apperr.ErrNotFound when no page matches.
func (db *DB) PageByName(name string) (*models.PageMeta, error) {
	var p models.PageMeta
	err := db.conn.QueryRow(
		`SELECT path, name, checksum, updated_at FROM pages WHERE name = ? COLLATE NOCASE ORDER BY path DESC LIMIT 1`,
		name,
	).Scan(&p.Path, &p.Name, &p.Checksum, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: page by name: %w", err)
	}
	return &p, nil
}

// Backlinks returns the names of pages linking to target, as stored.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ?`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Links returns every stored edge.
func (db *DB) Links() ([]models.Link, error) {
	rows, err := db.conn.Query(`SELECT source, target FROM links ORDER BY target, source`)
	if err != nil {
		return nil, fmt.Errorf("index: links: %w", err)
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
