package domain

import (
	"time"

	"github.com/google/uuid"
)

// OverflowReason explains why a customer was not assigned to any route
// (spec §7).
type OverflowReason string

const (
	ReasonInvalidCoordinates        OverflowReason = "InvalidCoordinates"
	ReasonExceedsFleetCapacity      OverflowReason = "ExceedsFleetCapacity"
	ReasonExceedsPerCustomerPolicy  OverflowReason = "ExceedsPerCustomerPolicy"
	ReasonDroppedBySolver           OverflowReason = "DroppedBySolver"
)

// Overflow pairs an unserved customer with the reason it was excluded.
type Overflow struct {
	Customer *Customer
	Reason   OverflowReason
}

// Fitness is the aggregate quality measure of a Solution (spec §3).
type Fitness struct {
	TotalDistanceKm  float64
	TotalDurationMin float64
	VehiclesUsed     int
}

// Solution is the immutable result of a solve: routes, overflow and
// aggregate statistics (spec §3). Construct with NewSolution; do not
// mutate Routes/Overflow afterward.
type Solution struct {
	ID           uuid.UUID
	Routes       []*Route
	Overflow     []Overflow
	Fitness      Fitness
	SolveTime    time.Duration
}

// NewSolution computes Fitness from Routes and returns the immutable
// Solution value, stamped with a fresh ID for cross-request diagnostics
// and cache-run correlation.
func NewSolution(routes []*Route, overflow []Overflow, solveTime time.Duration) *Solution {
	fitness := Fitness{VehiclesUsed: len(routes)}
	for _, r := range routes {
		fitness.TotalDistanceKm += r.TotalDistanceKm
		fitness.TotalDurationMin += r.TotalDurationMin
	}

	return &Solution{
		ID:        uuid.New(),
		Routes:    routes,
		Overflow:  overflow,
		Fitness:   fitness,
		SolveTime: solveTime,
	}
}

// ServedCount returns the number of customers assigned to a route.
func (s *Solution) ServedCount() int {
	n := 0
	for _, r := range s.Routes {
		n += r.Stops()
	}
	return n
}
