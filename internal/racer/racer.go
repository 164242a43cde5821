// Package racer runs several (first-solution, local-search) strategy
// pairs concurrently over the same read-only distance matrix and picks
// the best-scoring result (spec §4.7, §9).
package racer

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"vrpengine/internal/domain"
	"vrpengine/internal/platform/obs"
	"vrpengine/internal/routeerr"
	"vrpengine/internal/solver"
)

var errNoFeasibleResult = routeerr.ErrNoSolution

// Pairing is one (first-solution strategy, local-search metaheuristic)
// combination drawn from the fixed catalog.
type Pairing struct {
	Strategy solver.Strategy
	Meta     solver.MetaStrategy
}

// DefaultCatalog is every strategy paired with every metaheuristic
// (spec §4.7: "a fixed catalog").
func DefaultCatalog() []Pairing {
	var out []Pairing
	for _, s := range solver.AllStrategies {
		for _, meta := range solver.AllMetaStrategies {
			out = append(out, Pairing{Strategy: s, Meta: meta})
		}
	}
	return out
}

// Workers returns max(1, NumCPU-1), the worker count spec §9 mandates
// for the racer.
func Workers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Race runs every pairing in catalog against model, bounded by
// worker-count concurrency and by timeLimit, and returns the winner.
// Winners are ranked by (total distance, then vehicles used, then fewer
// unserved customers) — spec §4.7.
func Race(ctx context.Context, model *solver.Model, catalog []Pairing, timeLimit time.Duration) (_ *solver.Result, err error) {
	defer obs.Time(ctx, "racer.Race")(&err)

	start := time.Now()
	defer func() { obs.ObserveSolve(start, err) }()

	deadline := time.Now().Add(timeLimit)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers())

	results := make([]*solver.Result, len(catalog))
	for i, pairing := range catalog {
		i, pairing := i, pairing
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := model.Solve(pairing.Strategy, pairing.Meta, deadline)
			if err != nil {
				// A single infeasible pairing does not fail the whole race;
				// other pairings may still find a feasible solution.
				return nil
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var survivors []*solver.Result
	for _, r := range results {
		if r != nil {
			survivors = append(survivors, r)
		}
	}

	if len(survivors) == 0 {
		return nil, errNoFeasibleResult
	}

	sort.Slice(survivors, func(i, j int) bool {
		return less(survivors[i].Solution, survivors[j].Solution)
	})

	winner := survivors[0]
	obs.RacerWins.WithLabelValues(string(winner.Strategy), string(winner.Meta)).Inc()

	return winner, nil
}

func less(a, b *domain.Solution) bool {
	if a.Fitness.TotalDistanceKm != b.Fitness.TotalDistanceKm {
		return a.Fitness.TotalDistanceKm < b.Fitness.TotalDistanceKm
	}
	if a.Fitness.VehiclesUsed != b.Fitness.VehiclesUsed {
		return a.Fitness.VehiclesUsed < b.Fitness.VehiclesUsed
	}
	return len(a.Overflow) < len(b.Overflow)
}
