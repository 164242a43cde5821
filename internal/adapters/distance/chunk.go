package distance

import (
	"context"

	"vrpengine/internal/geo"
)

// blockFetcher retrieves one sub-matrix block (sourceIdx rows by destIdx
// columns) of locations. tableClient.fetchBlock and HaversineProvider's
// block fetch both satisfy this shape, so a tiled fetch can fall through
// a tier's client straight to the Haversine estimate per block.
type blockFetcher func(ctx context.Context, locations []geo.Point, sourceIdx, destIdx []int) (distances, durations [][]int, err error)

// fetchTiled assembles a full NxN matrix from blocks of at most
// chunkSize*chunkSize cells (spec §4.3: 30 < N <= 500 uses tiled
// chunking at <= 80x80). Demotion is per sub-matrix, not per whole
// fetch (spec §4.1): fetchers is tried in order for each block
// independently, so a block that fails against the primary server falls
// straight to the next fetcher (a fallback server, then Haversine)
// without discarding blocks that already succeeded against the primary.
func fetchTiled(ctx context.Context, locations []geo.Point, chunkSize int, fetchers ...blockFetcher) ([][]int, [][]int, error) {
	n := len(locations)
	distances := make([][]int, n)
	durations := make([][]int, n)
	for i := range distances {
		distances[i] = make([]int, n)
		durations[i] = make([]int, n)
	}

	rowBlocks := chunkIndices(n, chunkSize)
	colBlocks := chunkIndices(n, chunkSize)

	for _, rows := range rowBlocks {
		for _, cols := range colBlocks {
			d, t, err := fetchBlockWithFallback(ctx, locations, rows, cols, fetchers)
			if err != nil {
				return nil, nil, err
			}
			for ri, r := range rows {
				for ci, cIdx := range cols {
					distances[r][cIdx] = d[ri][ci]
					durations[r][cIdx] = t[ri][ci]
				}
			}
		}
	}

	return distances, durations, nil
}

// fetchBlockWithFallback tries each fetcher in order for one block,
// returning the first success. The caller is expected to always supply
// a final fetcher that cannot fail (Haversine), but a failure from every
// fetcher still surfaces as an error rather than panicking.
func fetchBlockWithFallback(ctx context.Context, locations []geo.Point, rows, cols []int, fetchers []blockFetcher) (d, t [][]int, err error) {
	for _, fetch := range fetchers {
		d, t, err = fetch(ctx, locations, rows, cols)
		if err == nil {
			return d, t, nil
		}
	}
	return nil, nil, err
}

func chunkIndices(n, size int) [][]int {
	if size <= 0 {
		size = n
	}
	var blocks [][]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		block := make([]int, end-start)
		for i := range block {
			block[i] = start + i
		}
		blocks = append(blocks, block)
	}
	return blocks
}
