// Package cache is the local snapshot store for fetched aggregates. It backs
// the console's read path: a site page loads from here when a snapshot
// exists, and a successful card save invalidates the snapshot so the next
// load re-fetches from the backend.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"griddesk/internal/logging"
)

// Store is a SQLite-backed snapshot cache.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// NewStore opens (or creates) the cache database at the given path.
func NewStore(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryCache, "NewStore")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.CacheDebug("failed to set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.CacheDebug("failed to set journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Cache("cache ready at %s", path)
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS site_snapshots (
		site_id    TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS device_snapshots (
		site_id    TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return nil
}

// PutSite stores the raw aggregate payload for a site.
func (s *Store) PutSite(siteID string, payload []byte) error {
	return s.put("site_snapshots", siteID, payload)
}

// GetSite returns the cached aggregate payload, if present.
func (s *Store) GetSite(siteID string) ([]byte, bool, error) {
	return s.get("site_snapshots", siteID)
}

// PutDevices stores the raw device-list payload for a site.
func (s *Store) PutDevices(siteID string, payload []byte) error {
	return s.put("device_snapshots", siteID, payload)
}

// GetDevices returns the cached device-list payload, if present.
func (s *Store) GetDevices(siteID string) ([]byte, bool, error) {
	return s.get("device_snapshots", siteID)
}

// Invalidate drops every snapshot for the site. Called after each
// successful save so the next page load re-fetches a fresh aggregate.
func (s *Store) Invalidate(siteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"site_snapshots", "device_snapshots"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE site_id = ?", siteID); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", table, err)
		}
	}
	logging.Cache("invalidated snapshots for site %s", siteID)
	return nil
}

// Clear drops all snapshots.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"site_snapshots", "device_snapshots"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(table, siteID string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO "+table+" (site_id, payload, fetched_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(site_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at",
		siteID, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (s *Store) get(table, siteID string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM "+table+" WHERE site_id = ?", siteID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return payload, true, nil
}
