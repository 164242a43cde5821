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

// PGMatrixCache is the shared-environment counterpart to
// SqliteMatrixCache, for deployments where multiple solver instances
// should see each other's cached matrices.
type PGMatrixCache struct {
	DB *sql.DB
}

func NewPGMatrixCache(db *sql.DB) *PGMatrixCache {
	return &PGMatrixCache{DB: db}
}

// InitPGSchema creates the matrix_cache table if it does not already
// exist.
func InitPGSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	const stmt = `
	CREATE TABLE IF NOT EXISTS matrix_cache (
		fingerprint TEXT PRIMARY KEY,
		created_at  BIGINT NOT NULL,
		payload     TEXT NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: create matrix_cache: %w", err)
	}

	return nil
}

func (c *PGMatrixCache) Get(ctx context.Context, fingerprint string) (_ *domain.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "cache.pg.Get")(&err)

	if c.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}

	var payload string
	row := c.DB.QueryRowContext(ctx, `SELECT payload FROM matrix_cache WHERE fingerprint = $1`, fingerprint)
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

func (c *PGMatrixCache) Put(ctx context.Context, fingerprint string, m *domain.DistanceMatrix, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "cache.pg.Put")(&err)

	if c.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	payload, err := encodeMatrix(m, time.Now(), ttl)
	if err != nil {
		return fmt.Errorf("matrix cache put: %w", err)
	}

	const stmt = `
	INSERT INTO matrix_cache (fingerprint, created_at, payload)
	VALUES ($1, $2, $3)
	ON CONFLICT (fingerprint) DO UPDATE
	SET created_at = EXCLUDED.created_at, payload = EXCLUDED.payload;
	`
	if _, err := c.DB.ExecContext(ctx, stmt, fingerprint, time.Now().Unix(), string(payload)); err != nil {
		return fmt.Errorf("matrix cache put: exec: %w", err)
	}

	return nil
}
