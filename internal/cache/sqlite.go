package cache

import (
	"database/sql"
	"fmt"
)

// SQLiteStore persists cache entries in the kv_cache table created by the
// shared migration runner. Entries are opaque envelope bytes; expiry is the
// TTL layer's concern.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore over an open database. The kv_cache
// table must already exist (run `xomify setup database` first).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var payload []byte

	err := s.db.QueryRow(
		"SELECT payload FROM kv_cache WHERE key = ?", key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrMiss
	} else if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	return payload, nil
}

func (s *SQLiteStore) Set(key string, payload []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv_cache (key, payload) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload
	`, key, payload)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeletePrefix(prefix string) error {
	// ESCAPE guards keys containing LIKE metacharacters
	if _, err := s.db.Exec(
		`DELETE FROM kv_cache WHERE key LIKE ? ESCAPE '\'`,
		escapeLike(prefix)+"%",
	); err != nil {
		return fmt.Errorf("failed to delete cache prefix: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
