package distance

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"vrpengine/internal/geo"
)

// fetchPairwise fills the full NxN matrix one row at a time under bounded
// concurrency (spec §4.3: N > 500). Each row is a single-source table
// call against every other location; workers share the routing server's
// connection pool rather than opening N*N individual requests.
func fetchPairwise(ctx context.Context, c *tableClient, locations []geo.Point, concurrency int) ([][]int, [][]int, error) {
	n := len(locations)
	distances := make([][]int, n)
	durations := make([][]int, n)
	for i := range distances {
		distances[i] = make([]int, n)
		durations[i] = make([]int, n)
	}

	allIdx := make([]int, n)
	for i := range allIdx {
		allIdx[i] = i
	}

	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			d, t, err := c.fetchBlock(ctx, locations, []int{i}, allIdx)
			if err != nil {
				return fmt.Errorf("pairwise row %d: %w", i, err)
			}
			distances[i] = d[0]
			durations[i] = t[0]
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return distances, durations, nil
}
