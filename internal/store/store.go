package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/errors"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Well-known record keys. Each is an independent top-level record; none owns
// another.
const (
	KeyCalorieLog           = "calorie_log"
	KeyWaterLog             = "water_log"
	KeyUserProfile          = "user_profile"
	KeyNotificationSettings = "notification_settings"
)

// Store is a persistent keyed record store backed by SQLite. Every record is
// one serialized JSON value under a named key. A single mutex serializes
// read-compute-write cycles so same-process callers never lose updates, and
// the last storage failure is retained as readable state instead of being
// thrown across the write boundary.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	cache   map[string]json.RawMessage
	loaded  map[string]bool
	subs    map[string][]func()
	lastErr *errors.SnapError
}

// Init initializes the SQLite-backed store at baseDir/caloriesnap.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.caloriesnap.
func Init(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "caloriesnap.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return &Store{
		db:     db,
		cache:  make(map[string]json.RawMessage),
		loaded: make(map[string]bool),
		subs:   make(map[string][]func()),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func (s *Store) ConfigurePool(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		s.db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		s.db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// Subscribe registers fn to run after every successful Set of key.
// Callbacks fire synchronously, outside the store lock, in registration order.
func (s *Store) Subscribe(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[key] = append(s.subs[key], fn)
}

// LastError returns the retained storage error, or nil. Callers render it as
// a persistent banner; it stays set until ClearError.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	return s.lastErr
}

// ClearError dismisses the retained storage error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Get returns the decoded value under key, or def when the key has never been
// written. Storage failures are retained via LastError and def is returned;
// reads never fail the caller.
func Get[T any](s *Store, key string, def T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.loadLocked(key)
	if err != nil {
		s.lastErr = errors.NewStorage(err)
		return def
	}
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.lastErr = errors.NewStorage(fmt.Errorf("decode %s: %w", key, err))
		return def
	}
	return v
}

// Set atomically replaces the value under key: the updater receives the
// latest known value (def when unset) and its result becomes the new value.
// An updater error aborts the write and is returned verbatim, so domain
// errors (validation, capacity) pass through untouched. A serialization or
// persistence failure retains the prior value, records a storage error
// readable via LastError, and returns it.
func Set[T any](s *Store, key string, def T, updater func(T) (T, error)) error {
	s.mu.Lock()
	notify, err := setLocked(s, key, def, updater)
	s.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return err
}

func setLocked[T any](s *Store, key string, def T, updater func(T) (T, error)) ([]func(), error) {
	raw, ok, err := s.loadLocked(key)
	if err != nil {
		sErr := errors.NewStorage(err)
		s.lastErr = sErr
		return nil, sErr
	}

	cur := def
	if ok {
		if err := json.Unmarshal(raw, &cur); err != nil {
			sErr := errors.NewStorage(fmt.Errorf("decode %s: %w", key, err))
			s.lastErr = sErr
			return nil, sErr
		}
	}

	next, err := updater(cur)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(next)
	if err != nil {
		sErr := errors.NewStorage(fmt.Errorf("encode %s: %w", key, err))
		s.lastErr = sErr
		return nil, sErr
	}

	now := time.Now().Unix()
	_, err = s.db.Exec(`
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(data), now)
	if err != nil {
		sErr := errors.NewStorage(err)
		s.lastErr = sErr
		return nil, sErr
	}

	s.cache[key] = json.RawMessage(data)
	s.loaded[key] = true

	// Snapshot subscribers so they run outside the lock.
	notify := make([]func(), len(s.subs[key]))
	copy(notify, s.subs[key])
	return notify, nil
}

// loadLocked returns the raw value for key, consulting the cache first.
// Must be called with s.mu held.
func (s *Store) loadLocked(key string) (json.RawMessage, bool, error) {
	if s.loaded[key] {
		raw, ok := s.cache[key]
		return raw, ok, nil
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		s.loaded[key] = true
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	raw := json.RawMessage(value)
	s.cache[key] = raw
	s.loaded[key] = true
	return raw, true, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS records (
		  key        TEXT PRIMARY KEY,
		  value      TEXT NOT NULL,
		  updated_at INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
