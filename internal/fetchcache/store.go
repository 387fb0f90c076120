// Package fetchcache provides HTTP retrieval with a local conditional cache.
// Every adapter fetch goes through it: fresh entries are served without a
// network call, stale entries are revalidated with ETag/Last-Modified, and a
// 304 costs only the round trip.
package fetchcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached payload keyed by URL hash.
type Entry struct {
	Key          string
	URL          string
	ETag         string
	LastModified string
	ContentType  string
	FetchedAt    time.Time
	Body         []byte
}

// Store persists cache entries in a local sqlite database.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key           TEXT PRIMARY KEY,
	url           TEXT NOT NULL,
	etag          TEXT NOT NULL DEFAULT '',
	last_modified TEXT NOT NULL DEFAULT '',
	content_type  TEXT NOT NULL DEFAULT '',
	fetched_at    INTEGER NOT NULL,
	body          BLOB NOT NULL
);
`

// OpenStore opens (creating if needed) the cache database under dir.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fetchcache: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "fetchcache.db"))
	if err != nil {
		return nil, fmt.Errorf("fetchcache: open db: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("fetchcache: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// CacheKey is the stable key for a URL.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get returns the entry for url, or (nil, nil) on a miss.
func (s *Store) Get(url string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT key, url, etag, last_modified, content_type, fetched_at, body
		 FROM cache_entries WHERE key = ?`, CacheKey(url))
	var e Entry
	var fetchedAt int64
	err := row.Scan(&e.Key, &e.URL, &e.ETag, &e.LastModified, &e.ContentType, &fetchedAt, &e.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.FetchedAt = time.Unix(fetchedAt, 0)
	return &e, nil
}

// Put replaces the entry for e.URL wholesale.
func (s *Store) Put(e *Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO cache_entries (key, url, etag, last_modified, content_type, fetched_at, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   url = excluded.url, etag = excluded.etag,
		   last_modified = excluded.last_modified,
		   content_type = excluded.content_type,
		   fetched_at = excluded.fetched_at, body = excluded.body`,
		CacheKey(e.URL), e.URL, e.ETag, e.LastModified, e.ContentType, e.FetchedAt.Unix(), e.Body)
	return err
}

// Touch refreshes the freshness timestamp after a 304 revalidation.
func (s *Store) Touch(url string, at time.Time) error {
	_, err := s.db.Exec(`UPDATE cache_entries SET fetched_at = ? WHERE key = ?`,
		at.Unix(), CacheKey(url))
	return err
}
