// Package distance builds domain.DistanceMatrix values from a tiered
// stack of routing servers, falling back to a Haversine approximation
// when neither is reachable (spec §4.3).
package distance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
	"vrpengine/internal/platform/obs"
	"vrpengine/internal/ports"
)

// Config controls endpoint selection, tiering thresholds and the
// Haversine fallback (spec §6 "matrix").
type Config struct {
	PrimaryEndpoint     string
	FallbackEndpoint    string
	Profile             string
	APIKey              string
	Timeout             time.Duration
	ChunkSize           int
	PairwiseConcurrency int
	HaversineInflation  float64
	HaversineSpeedKmh   float64
	// PrimaryRatePerSecond and FallbackRatePerSecond cap outbound
	// requests to each tier (0 disables limiting for that tier) — the
	// local routing server typically tolerates a much higher rate than
	// the public fallback.
	PrimaryRatePerSecond  float64
	FallbackRatePerSecond float64
}

// ThreeTierProvider implements ports.MatrixProvider: it tries the local
// routing server, then the public routing server, then Haversine
// estimation, and within whichever server responds it picks a fetch
// strategy by problem size (spec §4.3).
type ThreeTierProvider struct {
	cfg        Config
	httpClient *http.Client
	haversine  *HaversineProvider
}

func NewThreeTierProvider(cfg Config) *ThreeTierProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 80
	}
	if cfg.PairwiseConcurrency <= 0 {
		cfg.PairwiseConcurrency = 8
	}
	if cfg.Profile == "" {
		cfg.Profile = "driving"
	}

	return &ThreeTierProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		haversine:  NewHaversineProvider(cfg.HaversineInflation, cfg.HaversineSpeedKmh),
	}
}

// BuildMatrix resolves the full matrix for locations, trying the local
// server, then the public server, then the Haversine fallback in order.
func (p *ThreeTierProvider) BuildMatrix(ctx context.Context, locations []geo.Point) (_ *domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "distance.BuildMatrix")(&err)

	if len(locations) == 0 {
		return nil, errors.New("build matrix: locations must not be empty")
	}

	n := len(locations)
	clients := p.tierClients()

	var distancesM, durationsS [][]int
	switch {
	case n <= 30:
		distancesM, durationsS, err = p.fetchSingle(ctx, clients, locations)
	case n <= 500:
		distancesM, durationsS, err = fetchTiled(ctx, locations, p.cfg.ChunkSize, p.blockFetchers(clients)...)
	default:
		distancesM, durationsS, err = p.fetchPairwiseByTier(ctx, clients, locations)
	}
	if err != nil {
		return nil, err
	}

	return domain.NewDistanceMatrix(locations, distancesM, durationsS)
}

// tierClients builds a *tableClient per configured endpoint, each with
// its own rate limiter; an empty endpoint yields a nil client, which
// every dispatch method below skips.
func (p *ThreeTierProvider) tierClients() []*tableClient {
	tiers := []struct {
		endpoint string
		ratePerS float64
	}{
		{p.cfg.PrimaryEndpoint, p.cfg.PrimaryRatePerSecond},
		{p.cfg.FallbackEndpoint, p.cfg.FallbackRatePerSecond},
	}

	clients := make([]*tableClient, 0, len(tiers))
	for _, tier := range tiers {
		if tier.endpoint == "" {
			continue
		}

		var limiter *rate.Limiter
		if tier.ratePerS > 0 {
			limiter = rate.NewLimiter(rate.Limit(tier.ratePerS), int(math.Max(1, tier.ratePerS)))
		}

		clients = append(clients, &tableClient{httpClient: p.httpClient, baseURL: tier.endpoint, profile: p.cfg.Profile, apiKey: p.cfg.APIKey, limiter: limiter})
	}
	return clients
}

// blockFetchers returns the per-block fallback chain used by the tiled
// strategy: every configured tier's client in order, then Haversine as
// the unconditionally-succeeding last resort. Because fetchTiled applies
// this chain independently per sub-matrix block (spec §4.1), a block
// that fails against the primary server falls straight to the fallback
// server or Haversine without discarding blocks the primary already
// answered.
func (p *ThreeTierProvider) blockFetchers(clients []*tableClient) []blockFetcher {
	fetchers := make([]blockFetcher, 0, len(clients)+1)
	for _, c := range clients {
		fetchers = append(fetchers, c.fetchBlock)
	}
	return append(fetchers, p.haversine.fetchBlock)
}

// fetchSingle handles the n<=30 case: one table call per tier, falling
// back to the next tier (and finally Haversine) only on a whole-call
// failure — at this size a "sub-matrix" is the entire matrix, so there
// is nothing smaller to preserve across tiers.
func (p *ThreeTierProvider) fetchSingle(ctx context.Context, clients []*tableClient, locations []geo.Point) ([][]int, [][]int, error) {
	allIdx := make([]int, len(locations))
	for i := range allIdx {
		allIdx[i] = i
	}

	var lastErr error
	for _, c := range clients {
		d, t, err := c.fetchBlock(ctx, locations, allIdx, allIdx)
		if err != nil {
			lastErr = err
			continue
		}
		return d, t, nil
	}

	if lastErr != nil {
		lastErr = fmt.Errorf("routing servers unavailable, falling back to haversine: %w", lastErr)
	}
	d, t := p.haversine.matrix(locations)
	return d, t, nil
}

// fetchPairwiseByTier handles n>500: each tier is tried as a whole
// bounded-concurrency pass before falling back to the next.
func (p *ThreeTierProvider) fetchPairwiseByTier(ctx context.Context, clients []*tableClient, locations []geo.Point) ([][]int, [][]int, error) {
	var lastErr error
	for _, c := range clients {
		d, t, err := fetchPairwise(ctx, c, locations, p.cfg.PairwiseConcurrency)
		if err != nil {
			lastErr = err
			continue
		}
		return d, t, nil
	}

	if lastErr != nil {
		lastErr = fmt.Errorf("routing servers unavailable, falling back to haversine: %w", lastErr)
	}
	d, t := p.haversine.matrix(locations)
	return d, t, nil
}

var _ ports.MatrixProvider = (*ThreeTierProvider)(nil)
