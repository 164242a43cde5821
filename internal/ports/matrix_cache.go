package ports

import (
	"context"
	"time"

	"vrpengine/internal/domain"
)

// MatrixCache persists distance matrices keyed by a deterministic
// fingerprint of (profile, locations). Entries expire after their TTL.
type MatrixCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.DistanceMatrix, bool, error)
	Put(ctx context.Context, fingerprint string, m *domain.DistanceMatrix, ttl time.Duration) error
}
