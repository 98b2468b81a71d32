// Package cache persists catalog lookups in a local SQLite database so
// repeated hunts do not hammer the same third-party endpoints.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	// DefaultTTL is the time-to-live for cached catalog hits (30 days).
	DefaultTTL = 720 * time.Hour
	// NegativeTTL is the shorter TTL for cached "no result" answers
	// (7 days); a catalog may pick up a release it missed last week.
	NegativeTTL = 168 * time.Hour
)

// FetchFunc fetches a value from the external source on cache miss.
type FetchFunc[T any] func() (T, error)

// Enabled reports whether lookup caching is turned on for this run.
// The root command sets cache.enabled from the --no-cache flag.
func Enabled() bool {
	return viper.GetBool("cache.enabled")
}

// DB manages the SQLite connection backing the lookup cache.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

var (
	globalDB     *DB
	globalDBOnce sync.Once
)

// ResetGlobal closes and clears the singleton so the next Global call
// opens a fresh database. Test helper.
func ResetGlobal() error {
	if globalDB != nil {
		if err := globalDB.Close(); err != nil {
			return err
		}
	}
	globalDB = nil
	globalDBOnce = sync.Once{}
	return nil
}

// Global returns the singleton cache database, opening it at the path
// configured under cache.dbfile on first use.
func Global() (*DB, error) {
	var initErr error
	globalDBOnce.Do(func() {
		dbPath := viper.GetString("cache.dbfile")
		if dbPath == "" {
			dbPath = "./cache.db"
		}
		globalDB, initErr = Open(dbPath)
		if initErr != nil {
			return
		}
		for _, schema := range AllSchemas {
			if err := globalDB.createTable(schema); err != nil {
				initErr = fmt.Errorf("failed to create cache table: %w", err)
				return
			}
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return globalDB, nil
}

// Open opens (or creates) a cache database at the given path.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	return &DB{db: db, path: dbPath}, nil
}

func (c *DB) createTable(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the cached value for key if present and younger than ttl.
func (c *DB) Get(tableName, key string, ttl time.Duration) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := validateTableName(tableName); err != nil {
		return "", false, err
	}

	query := fmt.Sprintf("SELECT data, cached_at FROM %s WHERE cache_key = ?", tableName)
	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(query, key).Scan(&data, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Since(cachedAt) > ttl {
		return "", false, nil
	}
	return data, true, nil
}

// Set stores a value under key, replacing any previous entry.
func (c *DB) Set(tableName, key, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := validateTableName(tableName); err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (cache_key, data, cached_at) VALUES (?, ?, ?)",
		tableName,
	)
	if _, err := c.db.Exec(query, key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// InvalidateSource deletes every entry in the given cache table and
// returns the number of rows removed.
func (c *DB) InvalidateSource(tableName string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := validateTableName(tableName); err != nil {
		return 0, err
	}

	result, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Cache table cleared", "table", tableName, "rows_deleted", rowsAffected)
	return rowsAffected, nil
}

// validateTableName rejects table names outside the schema whitelist so
// interpolated names cannot inject SQL.
func validateTableName(tableName string) error {
	if !ValidTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}

// GetOrFetch returns the cached value for key, or fetches and caches it.
// ttlSelector, if non-nil, picks the TTL per fetched value; use it to give
// no-result answers the shorter NegativeTTL.
func GetOrFetch[T any](tableName, key string, fetch FetchFunc[T], ttlSelector func(T) time.Duration) (T, bool, error) {
	var zero T

	db, err := Global()
	if err != nil {
		// A broken cache must not break the hunt.
		slog.Warn("Failed to open cache, fetching directly", "error", err)
		data, fetchErr := fetch()
		return data, false, fetchErr
	}

	defaultTTL := configuredTTL()

	cached, fromCache, err := db.Get(tableName, key, defaultTTL)
	if err == nil && fromCache {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			slog.Debug("Cache hit", "table", tableName, "key", key)
			return result, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, refetching", "table", tableName, "key", key, "error", err)
	}

	slog.Debug("Cache miss, fetching", "table", tableName, "key", key)
	data, err := fetch()
	if err != nil {
		return zero, false, fmt.Errorf("failed to fetch data: %w", err)
	}

	ttl := defaultTTL
	if ttlSelector != nil {
		ttl = ttlSelector(data)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "table", tableName, "key", key, "error", err)
		return data, false, nil
	}

	entry := cachedEntry{Data: string(jsonData), TTL: ttl}
	if err := db.setWithTTL(tableName, key, entry); err != nil {
		// Caching failure must not fail the lookup.
		slog.Warn("Failed to cache data", "table", tableName, "key", key, "error", err)
	}

	return data, false, nil
}

type cachedEntry struct {
	Data string
	TTL  time.Duration
}

// setWithTTL stores an entry with a backdated timestamp so that a shorter
// TTL expires earlier even though Get checks against the default TTL.
func (c *DB) setWithTTL(tableName, key string, entry cachedEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := validateTableName(tableName); err != nil {
		return err
	}

	cachedAt := time.Now().UTC()
	if entry.TTL < configuredTTL() {
		cachedAt = cachedAt.Add(entry.TTL - configuredTTL())
	}

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (cache_key, data, cached_at) VALUES (?, ?, ?)",
		tableName,
	)
	if _, err := c.db.Exec(query, key, entry.Data, cachedAt); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// SelectNegativeTTL returns a TTL selector that shortens the lifetime of
// "no result" answers.
func SelectNegativeTTL[T any](isNotFound func(T) bool) func(T) time.Duration {
	return func(result T) time.Duration {
		if isNotFound(result) {
			return NegativeTTL
		}
		return DefaultTTL
	}
}

func configuredTTL() time.Duration {
	ttlStr := viper.GetString("cache.ttl")
	if ttlStr == "" {
		return DefaultTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		slog.Warn("Invalid cache TTL, using default", "ttl", ttlStr, "error", err)
		return DefaultTTL
	}
	return ttl
}
