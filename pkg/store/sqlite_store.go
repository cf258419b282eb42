package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	_ "modernc.org/sqlite"

	errUtils "github.com/packmeta/packmeta/errors"
)

// SQLiteStoreOptions configures a SQLiteStore.
type SQLiteStoreOptions struct {
	// Path is the database file path. ":memory:" gives a transient database.
	Path string `mapstructure:"path"`
}

// SQLiteStore persists cached determinations in a SQLite database using the
// pure-Go modernc.org/sqlite driver.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed initializes) the database at the
// configured path.
func NewSQLiteStore(options SQLiteStoreOptions) (*SQLiteStore, error) {
	if options.Path == "" {
		options.Path = ":memory:"
	}

	db, err := sql.Open("sqlite", options.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}

	// The support cache is accessed from concurrent reconciliation calls;
	// a single connection sidesteps SQLite's multi-writer locking.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS support_cache (
			key        TEXT PRIMARY KEY,
			value      INTEGER NOT NULL,
			expires_at INTEGER
		)`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}

	return &SQLiteStore{db: db, path: options.Path}, nil
}

// Get retrieves a value by key, treating expired rows as misses.
func (s *SQLiteStore) Get(key string) (bool, bool, error) {
	var value int
	var expiresAt sql.NullInt64

	row := s.db.QueryRow(`SELECT value, expires_at FROM support_cache WHERE key = ?`, key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return false, false, nil
		}
		return false, false, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}

	if expiresAt.Valid && time.Now().Unix() > expiresAt.Int64 {
		_, _ = s.db.Exec(`DELETE FROM support_cache WHERE key = ?`, key)
		return false, false, nil
	}

	return value != 0, true, nil
}

// Put stores a key-value pair. A zero TTL means the row never expires.
func (s *SQLiteStore) Put(key string, value bool, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	intValue := 0
	if value {
		intValue = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO support_cache (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, intValue, expiresAt)
	if err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}
	return nil
}

// InvalidatePattern removes all keys matching a glob pattern. Matching is
// done client-side so that glob semantics stay identical across backends.
func (s *SQLiteStore) InvalidatePattern(pattern string) (int, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return 0, errUtils.ErrInvalidPattern
	}

	rows, err := s.db.Query(`SELECT key FROM support_cache`)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var matched []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return 0, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
		}
		if g.Match(key) {
			matched = append(matched, key)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}

	removed := 0
	for _, key := range matched {
		if _, err := s.db.Exec(`DELETE FROM support_cache WHERE key = ?`, key); err != nil {
			return removed, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
		}
		removed++
	}
	return removed, nil
}

// Info returns diagnostics about the store.
func (s *SQLiteStore) Info() map[string]any {
	var size int
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM support_cache`).Scan(&size)

	return map[string]any{
		"type": "sqlite",
		"path": s.path,
		"size": size,
	}
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
