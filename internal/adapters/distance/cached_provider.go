package distance

import (
	"context"
	"fmt"
	"time"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
	"vrpengine/internal/platform/obs"
	"vrpengine/internal/ports"
)

// CachedProvider wraps another ports.MatrixProvider with a persistent
// ports.MatrixCache, keyed by the deterministic fingerprint of (profile,
// locations). A cache hit skips the underlying provider entirely; a miss
// builds the matrix, stores it with TTL, and returns it (spec §4.3's
// "persistent cache" requirement).
type CachedProvider struct {
	Inner   ports.MatrixProvider
	Cache   ports.MatrixCache
	Profile string
	TTL     time.Duration
}

func NewCachedProvider(inner ports.MatrixProvider, c ports.MatrixCache, profile string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{Inner: inner, Cache: c, Profile: profile, TTL: ttl}
}

func (p *CachedProvider) BuildMatrix(ctx context.Context, locations []geo.Point) (_ *domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "distance.CachedProvider.BuildMatrix")(&err)

	fp := Fingerprint(p.Profile, locations)

	if p.Cache != nil {
		if m, ok, err := p.Cache.Get(ctx, fp); err == nil && ok {
			obs.MatrixCacheResults.WithLabelValues("hit").Inc()
			return m, nil
		}
		obs.MatrixCacheResults.WithLabelValues("miss").Inc()
	}

	m, err := p.Inner.BuildMatrix(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("cached provider: %w", err)
	}

	if p.Cache != nil {
		if err := p.Cache.Put(ctx, fp, m, p.TTL); err != nil {
			return nil, fmt.Errorf("cached provider: put: %w", err)
		}
	}

	return m, nil
}

var _ ports.MatrixProvider = (*CachedProvider)(nil)
