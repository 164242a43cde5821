package ports

import (
	"context"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

// MatrixProvider resolves a full distance/duration matrix over an ordered
// set of locations (depots first, then customers). Implementations choose
// their own strategy for large location counts (single call, tiled
// chunking, bounded-concurrency pairwise calls) — the caller only sees
// the assembled matrix.
type MatrixProvider interface {
	BuildMatrix(ctx context.Context, locations []geo.Point) (*domain.DistanceMatrix, error)
}
