// Package cache implements the TTL key-value cache used by every feature
// area. Entries are stored as a JSON envelope of payload plus creation
// timestamp; an entry older than its TTL is treated as absent and removed on
// read. Corrupt or unreadable entries are also treated as misses, never as
// errors, so callers always degrade to a refetch.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Per-feature TTLs. The key namespace is shared, so each feature owns a
// distinct key prefix rather than a lock.
const (
	TTLReleases  = 30 * time.Minute
	TTLFollowing = 30 * time.Minute
	TTLGenres    = 30 * time.Minute
)

// Well-known cache keys and prefixes.
const (
	KeyReleaseRadar    = "xomify_release_radar"
	KeyFollowing       = "xomify_following"
	PrefixTopGenres    = "xomify_top_genres_"
	PrefixGenreGroups  = "xomify_genre_groups_"
	PrefixFriendStats  = "xomify_friend_stats_"
	PrefixGroupDetails = "xomify_group_"
)

// ErrMiss is returned by Store backends when a key is absent.
var ErrMiss = errors.New("cache miss")

// Store is the raw key-value backend underneath the TTL layer.
//
// Implementations: MemoryStore (tests, ephemeral runs) and SQLiteStore
// (persistent, the localStorage replacement).
type Store interface {
	// Get returns the raw payload for key, or ErrMiss.
	Get(key string) ([]byte, error)

	// Set writes payload for key.
	Set(key string, payload []byte) error

	// Delete removes a single key. Absent keys are not an error.
	Delete(key string) error

	// DeletePrefix removes every key with the given prefix.
	DeletePrefix(prefix string) error
}

// envelope mirrors the {items, timestamp} shape the web client persisted,
// so payloads stay inspectable with ordinary tooling. The timestamp inside
// the envelope is the only record of the entry's age; the store holds
// opaque bytes.
type envelope struct {
	Items     json.RawMessage `json:"items"`
	Timestamp int64           `json:"timestamp"`
}

// Cache layers TTL semantics over a Store.
type Cache struct {
	store Store
	now   func() time.Time
	log   Logger
}

// Logger is the subset of charmbracelet/log used by the cache; kept as an
// interface so tests can run silent.
type Logger interface {
	Warn(msg any, kv ...any)
	Debug(msg any, kv ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(msg any, kv ...any)  {}
func (nopLogger) Debug(msg any, kv ...any) {}

// New creates a Cache over the given store. A nil logger silences cache
// diagnostics.
func New(store Store, logger Logger) *Cache {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Cache{store: store, now: time.Now, log: logger}
}

// SetClock overrides the cache's time source. Tests only.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Get unmarshals the cached value for key into out if the entry exists and
// is younger than ttl. Returns false on miss, expiry, or corruption; expired
// entries are deleted on the way out.
func (c *Cache) Get(key string, ttl time.Duration, out any) bool {
	payload, err := c.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.log.Warn("corrupt cache entry", "key", key, "error", err)
		return false
	}

	if c.now().Sub(time.UnixMilli(env.Timestamp)) > ttl {
		c.log.Debug("cache entry expired", "key", key)
		if err := c.store.Delete(key); err != nil {
			c.log.Warn("failed to delete expired entry", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(env.Items, out); err != nil {
		c.log.Warn("corrupt cache payload", "key", key, "error", err)
		return false
	}

	return true
}

// Set serializes items under key. Write failures are logged and swallowed;
// a full or broken cache must never fail the operation that produced the
// data.
func (c *Cache) Set(key string, items any) {
	raw, err := json.Marshal(items)
	if err != nil {
		c.log.Warn("failed to marshal cache payload", "key", key, "error", err)
		return
	}

	payload, err := json.Marshal(envelope{Items: raw, Timestamp: c.now().UnixMilli()})
	if err != nil {
		c.log.Warn("failed to marshal cache envelope", "key", key, "error", err)
		return
	}

	if err := c.store.Set(key, payload); err != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
}

// Clear removes a single key.
func (c *Cache) Clear(key string) error {
	if err := c.store.Delete(key); err != nil {
		return fmt.Errorf("failed to clear cache key %s: %w", key, err)
	}
	return nil
}

// ClearPrefix removes every key under prefix, used after mutations that
// could leave a whole feature area stale.
func (c *Cache) ClearPrefix(prefix string) error {
	if err := c.store.DeletePrefix(prefix); err != nil {
		return fmt.Errorf("failed to clear cache prefix %s: %w", prefix, err)
	}
	return nil
}
