package distance

import (
	"context"
	"testing"
	"time"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

type countingProvider struct {
	calls  int
	matrix *domain.DistanceMatrix
}

func (p *countingProvider) BuildMatrix(ctx context.Context, locations []geo.Point) (*domain.DistanceMatrix, error) {
	p.calls++
	return p.matrix, nil
}

type memCache struct {
	entries map[string]*domain.DistanceMatrix
}

func newMemCache() *memCache { return &memCache{entries: map[string]*domain.DistanceMatrix{}} }

func (c *memCache) Get(ctx context.Context, fingerprint string) (*domain.DistanceMatrix, bool, error) {
	m, ok := c.entries[fingerprint]
	return m, ok, nil
}

func (c *memCache) Put(ctx context.Context, fingerprint string, m *domain.DistanceMatrix, ttl time.Duration) error {
	c.entries[fingerprint] = m
	return nil
}

func TestCachedProviderSkipsInnerOnHit(t *testing.T) {
	locs := []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}
	m, _ := domain.NewDistanceMatrix(locs, [][]int{{0, 1000}, {1000, 0}}, [][]int{{0, 60}, {60, 0}})

	inner := &countingProvider{matrix: m}
	p := NewCachedProvider(inner, newMemCache(), "driving", time.Hour)

	if _, err := p.BuildMatrix(context.Background(), locs); err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if _, err := p.BuildMatrix(context.Background(), locs); err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("inner.calls = %d, want 1 (second call should be served from cache)", inner.calls)
	}
}
