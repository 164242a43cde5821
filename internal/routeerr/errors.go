// Package routeerr declares the sentinel error kinds exposed by the routing
// core (see spec §7). Callers distinguish them with errors.Is; concrete
// failures are still wrapped with context via fmt.Errorf("...: %w", ...).
package routeerr

import "errors"

var (
	// ErrInvalidInput marks a configuration or input defect caught before
	// any solve begins (bad vehicle capacity, non-numeric volume, a
	// vehicle class referencing a depot not present in the matrix).
	ErrInvalidInput = errors.New("invalid input")

	// ErrMatrixUnavailable marks that all distance-matrix fallback tiers
	// failed for at least one required pair.
	ErrMatrixUnavailable = errors.New("distance matrix unavailable")

	// ErrModelInfeasible marks that the CVRP model itself cannot be
	// satisfied (e.g. total demand exceeds total fleet capacity).
	ErrModelInfeasible = errors.New("cvrp model infeasible")

	// ErrNoSolution marks that a solver worker found no feasible first
	// solution within its time budget.
	ErrNoSolution = errors.New("no solution found within time budget")
)
