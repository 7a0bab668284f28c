package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a local article store backed by SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	lang       TEXT NOT NULL,
	title      TEXT NOT NULL,
	wikitext   TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (lang, title)
);`

// OpenStore opens or creates the store at path with WAL mode enabled.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Put inserts or replaces an article.
func (s *Store) Put(ctx context.Context, a Article) error {
	title := NormalizeTitle(a.Title)
	if title == "" {
		return fmt.Errorf("put article: empty title")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (lang, title, wikitext, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(lang, title) DO UPDATE SET wikitext = excluded.wikitext, updated_at = excluded.updated_at`,
		NormalizeLang(a.Lang), title, a.Wikitext, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put article %s: %w", title, err)
	}
	return nil
}

// Fetch implements Fetcher.
func (s *Store) Fetch(ctx context.Context, title, lang string) (*Article, error) {
	a := Article{Title: NormalizeTitle(title), Lang: NormalizeLang(lang)}
	err := s.db.QueryRowContext(ctx,
		`SELECT wikitext FROM articles WHERE lang = ? AND title = ?`, a.Lang, a.Title).Scan(&a.Wikitext)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch article %s: %w", a.Title, err)
	}
	return &a, nil
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Cached reads through store before asking upstream and writes every
// upstream hit back into store.
type Cached struct {
	Upstream Fetcher
	Store    *Store
}

// Fetch implements Fetcher.
func (c *Cached) Fetch(ctx context.Context, title, lang string) (*Article, error) {
	a, err := c.Store.Fetch(ctx, title, lang)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	a, err = c.Upstream.Fetch(ctx, title, lang)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Put(ctx, *a); err != nil {
		return nil, err
	}
	return a, nil
}
