package cve

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
)

//go:embed schema.sql
var schemaSQL string

// DefaultCacheTTL bounds how long a cached registry response is served
// before the registry is consulted again.
const DefaultCacheTTL = 24 * time.Hour

// SQLiteCache implements ports.CVECache on a local SQLite file. It caches
// registry responses only; the catalog itself stays in memory.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
}

var _ ports.CVECache = (*SQLiteCache)(nil)

// NewSQLiteCache opens (and if needed initializes) the cache database.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteCache{db: db, ttl: DefaultCacheTTL}, nil
}

// Get returns the cached record for cveID, or (nil, nil) when the entry is
// missing or stale.
func (c *SQLiteCache) Get(ctx context.Context, cveID string) (*domain.CVEDetails, error) {
	var payload, fetchedAt string
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM cve_cache WHERE cve_id = ?", cveID,
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}

	fetched, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil || time.Since(fetched) > c.ttl {
		return nil, nil
	}

	var details domain.CVEDetails
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %s: %w", cveID, err)
	}
	return &details, nil
}

// Put upserts a registry response into the cache.
func (c *SQLiteCache) Put(ctx context.Context, details domain.CVEDetails) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}

	var score any
	if details.CVSSScore != nil {
		score = *details.CVSSScore
	}

	query := `
		INSERT INTO cve_cache (cve_id, severity, cvss_score, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cve_id) DO UPDATE SET
			severity = excluded.severity,
			cvss_score = excluded.cvss_score,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err = c.db.ExecContext(ctx, query,
		details.CVEID, string(details.Severity), score, string(payload),
		time.Now().Format(time.RFC3339),
	)
	return err
}

// Count returns the number of cached records.
func (c *SQLiteCache) Count(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cve_cache").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
