// Package warehouse decides, before any route is built, which customers
// the fleet can possibly serve at all (spec §4.2). It never assigns a
// customer to a specific vehicle or route — that is the solver's job —
// it only separates "servable" from "overflow" and states why.
package warehouse

import (
	"sort"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

// Policy carries the allocator's configurable ceiling (spec §6 "policy").
type Policy struct {
	PerCustomerCeiling float64
}

// Allocate applies the four ordered overflow rules of spec §4.2, in
// order, to every customer:
//  1. InvalidCoordinates     — customer has no usable coordinates.
//  2. ExceedsFleetCapacity   — volume exceeds the largest single enabled
//     vehicle class's capacity, so no vehicle in the fleet could ever
//     carry it alone.
//  3. ExceedsPerCustomerPolicy — volume exceeds the configured
//     per-customer ceiling, regardless of fleet capacity.
//  4. otherwise the customer is returned in served.
//
// Bin-packing customers against the fleet's combined capacity is the
// solver's job, not the allocator's (spec §4.3 skipping, §7
// ModelInfeasible) — this only rules out customers no vehicle could ever
// serve.
//
// Customers are visited in a stable order — ascending volume, then
// descending depot distance — and both served and overflow are returned
// in that order, so the solver's customer (node) order is deterministic
// across runs. The order has no bearing on which rule a customer hits.
func Allocate(customers []*domain.Customer, fleet domain.Fleet, policy Policy, depot geo.Point) (served []*domain.Customer, overflow []domain.Overflow) {
	ordered := make([]*domain.Customer, len(customers))
	copy(ordered, customers)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Volume != b.Volume {
			return a.Volume < b.Volume
		}
		da := geo.HaversineKm(depot, a.Coordinates)
		db := geo.HaversineKm(depot, b.Coordinates)
		return da > db
	})

	maxSingle := fleet.MaxSingleCapacity()

	served = make([]*domain.Customer, 0, len(ordered))
	for _, c := range ordered {
		if !c.HasCoordinates || !c.Coordinates.Valid() {
			overflow = append(overflow, domain.Overflow{Customer: c, Reason: domain.ReasonInvalidCoordinates})
			continue
		}

		if maxSingle == 0 || c.Volume > float64(maxSingle) {
			overflow = append(overflow, domain.Overflow{Customer: c, Reason: domain.ReasonExceedsFleetCapacity})
			continue
		}

		if policy.PerCustomerCeiling > 0 && c.Volume > policy.PerCustomerCeiling {
			overflow = append(overflow, domain.Overflow{Customer: c, Reason: domain.ReasonExceedsPerCustomerPolicy})
			continue
		}

		served = append(served, c)
	}

	return served, overflow
}
