package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vrpengine/internal/domain"
	"vrpengine/internal/platform/obs"
)

// SqliteMatrixCache persists distance matrices to a local SQLite database
// via the pure-Go modernc.org/sqlite driver, so the binary stays
// CGo-free.
type SqliteMatrixCache struct {
	DB *sql.DB
}

func NewSqliteMatrixCache(db *sql.DB) *SqliteMatrixCache {
	return &SqliteMatrixCache{DB: db}
}

// InitSqliteSchema creates the matrix_cache table if it does not already
// exist.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	const stmt = `
	CREATE TABLE IF NOT EXISTS matrix_cache (
		fingerprint TEXT PRIMARY KEY,
		created_at  INTEGER NOT NULL,
		payload     TEXT NOT NULL
	);
	`
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("init schema: create matrix_cache: %w", err)
	}

	const idx = `CREATE INDEX IF NOT EXISTS idx_matrix_cache_created_at ON matrix_cache(created_at);`
	if _, err := db.Exec(idx); err != nil {
		return fmt.Errorf("init schema: create index: %w", err)
	}

	return nil
}

func (c *SqliteMatrixCache) Get(ctx context.Context, fingerprint string) (_ *domain.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "cache.sqlite.Get")(&err)

	if c.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}

	var payload string
	row := c.DB.QueryRowContext(ctx, `SELECT payload FROM matrix_cache WHERE fingerprint = ?`, fingerprint)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("matrix cache get: query: %w", err)
	}

	m, ok, err := decodeMatrix([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("matrix cache get: %w", err)
	}
	return m, ok, nil
}

func (c *SqliteMatrixCache) Put(ctx context.Context, fingerprint string, m *domain.DistanceMatrix, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "cache.sqlite.Put")(&err)

	if c.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	payload, err := encodeMatrix(m, time.Now(), ttl)
	if err != nil {
		return fmt.Errorf("matrix cache put: %w", err)
	}

	const stmt = `
	INSERT INTO matrix_cache (fingerprint, created_at, payload)
	VALUES (?, ?, ?)
	ON CONFLICT(fingerprint) DO UPDATE SET created_at = excluded.created_at, payload = excluded.payload;
	`
	if _, err := c.DB.ExecContext(ctx, stmt, fingerprint, time.Now().Unix(), string(payload)); err != nil {
		return fmt.Errorf("matrix cache put: exec: %w", err)
	}

	return nil
}

// Sweep deletes cache rows whose created_at predates the cutoff, for
// periodic TTL eviction independent of per-row expiry checks.
func (c *SqliteMatrixCache) Sweep(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := c.DB.ExecContext(ctx, `DELETE FROM matrix_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("matrix cache sweep: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
