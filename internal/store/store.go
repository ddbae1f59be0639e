// Package store persists scraped pages in a local SQLite database, used
// for scrape deduplication and as the input for corpus formatting.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const fileName = "scrape.db"

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	title           TEXT PRIMARY KEY,
	url             TEXT NOT NULL UNIQUE,
	rev_id          INTEGER NOT NULL,
	html            TEXT NOT NULL,
	file_safe_title TEXT NOT NULL,
	scraped_at      TIMESTAMP NOT NULL
);
`

// Store is a SQLite-backed page store.
type Store struct {
	db *sql.DB
}

// Page is one scraped wiki page.
type Page struct {
	Title         string
	URL           string
	RevID         int64
	HTML          string
	FileSafeTitle string
	ScrapedAt     time.Time
}

// Path returns the database file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, fileName)
}

// Open opens (creating if necessary) the page store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", Path(dir))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a page record.
func (s *Store) Put(ctx context.Context, p Page) error {
	if p.ScrapedAt.IsZero() {
		p.ScrapedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pages (title, url, rev_id, html, file_safe_title, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Title, p.URL, p.RevID, p.HTML, p.FileSafeTitle, p.ScrapedAt)
	if err != nil {
		return fmt.Errorf("put page %q: %w", p.Title, err)
	}
	return nil
}

// Exists reports whether a page with the given title is stored.
func (s *Store) Exists(ctx context.Context, title string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM pages WHERE title = ?`, title).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check page %q: %w", title, err)
	}
	return true, nil
}

// Count returns the number of stored pages.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// LastScraped returns the most recently inserted page, or nil when the
// store is empty. Used to resume an inorder scraping session.
func (s *Store) LastScraped(ctx context.Context) (*Page, error) {
	var p Page
	err := s.db.QueryRowContext(ctx,
		`SELECT title, url, rev_id, html, file_safe_title, scraped_at
		 FROM pages ORDER BY rowid DESC LIMIT 1`).
		Scan(&p.Title, &p.URL, &p.RevID, &p.HTML, &p.FileSafeTitle, &p.ScrapedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last scraped page: %w", err)
	}
	return &p, nil
}

// ForEach calls fn for every stored page in insertion order. Iteration
// stops at the first error fn returns.
func (s *Store) ForEach(ctx context.Context, fn func(Page) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, url, rev_id, html, file_safe_title, scraped_at
		 FROM pages ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("iterate pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.Title, &p.URL, &p.RevID, &p.HTML, &p.FileSafeTitle, &p.ScrapedAt); err != nil {
			return fmt.Errorf("scan page: %w", err)
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Remove deletes the database file in dir, discarding all scraped pages.
func Remove(dir string) error {
	err := os.Remove(Path(dir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove database: %w", err)
	}
	return nil
}

// FileSafe converts a page title into a name usable as a file basename.
func FileSafe(title string) string {
	r := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		" ", "_",
		"..", "_",
	)
	name := r.Replace(title)
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
