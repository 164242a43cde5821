package warehouse

import (
	"testing"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

func mustCustomer(t *testing.T, id string, lat, lon, volume float64, hasCoords bool) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer(id, id, geo.Point{Lat: lat, Lon: lon}, hasCoords, volume, "")
	if err != nil {
		t.Fatalf("NewCustomer(%s) error = %v", id, err)
	}
	return c
}

func testFleet() domain.Fleet {
	return domain.Fleet{
		{Class: domain.ClassInternal, Enabled: true, Capacity: 30, Count: 2, MaxTimeMinutes: 480},
	}
}

func TestAllocateInvalidCoordinates(t *testing.T) {
	c := mustCustomer(t, "c1", 42.69, 23.32, 5, false)
	served, overflow := Allocate([]*domain.Customer{c}, testFleet(), Policy{}, geo.Point{})

	if len(served) != 0 || len(overflow) != 1 {
		t.Fatalf("got served=%d overflow=%d, want served=0 overflow=1", len(served), len(overflow))
	}
	if overflow[0].Reason != domain.ReasonInvalidCoordinates {
		t.Errorf("Reason = %v, want InvalidCoordinates", overflow[0].Reason)
	}
}

func TestAllocateExceedsFleetCapacity(t *testing.T) {
	c := mustCustomer(t, "c1", 42.69, 23.32, 50, true)
	served, overflow := Allocate([]*domain.Customer{c}, testFleet(), Policy{}, geo.Point{})

	if len(served) != 0 || len(overflow) != 1 {
		t.Fatalf("got served=%d overflow=%d, want served=0 overflow=1", len(served), len(overflow))
	}
	if overflow[0].Reason != domain.ReasonExceedsFleetCapacity {
		t.Errorf("Reason = %v, want ExceedsFleetCapacity", overflow[0].Reason)
	}
}

func TestAllocateExceedsPerCustomerPolicy(t *testing.T) {
	c := mustCustomer(t, "c1", 42.69, 23.32, 20, true)
	served, overflow := Allocate([]*domain.Customer{c}, testFleet(), Policy{PerCustomerCeiling: 10}, geo.Point{})

	if len(served) != 0 || len(overflow) != 1 {
		t.Fatalf("got served=%d overflow=%d, want served=0 overflow=1", len(served), len(overflow))
	}
	if overflow[0].Reason != domain.ReasonExceedsPerCustomerPolicy {
		t.Errorf("Reason = %v, want ExceedsPerCustomerPolicy", overflow[0].Reason)
	}
}

func TestAllocateDoesNotBinPackAgainstCombinedFleetCapacity(t *testing.T) {
	// Total fleet capacity is 60 (2 x 30). Three 25-volume customers sum to
	// 75 but each individually fits the largest enabled vehicle class, so
	// all three are servable — bin-packing against combined capacity is
	// the solver's job (skipping/ModelInfeasible), not the allocator's.
	c1 := mustCustomer(t, "c1", 42.69, 23.32, 25, true)
	c2 := mustCustomer(t, "c2", 42.70, 23.33, 25, true)
	c3 := mustCustomer(t, "c3", 42.71, 23.34, 25, true)

	served, overflow := Allocate([]*domain.Customer{c1, c2, c3}, testFleet(), Policy{}, geo.Point{Lat: 42.69, Lon: 23.32})

	if len(served) != 3 {
		t.Fatalf("len(served) = %d, want 3", len(served))
	}
	if len(overflow) != 0 {
		t.Fatalf("len(overflow) = %d, want 0", len(overflow))
	}
}

func TestAllocateServesWithinLimits(t *testing.T) {
	c := mustCustomer(t, "c1", 42.69, 23.32, 10, true)
	served, overflow := Allocate([]*domain.Customer{c}, testFleet(), Policy{PerCustomerCeiling: 20}, geo.Point{})

	if len(served) != 1 || len(overflow) != 0 {
		t.Fatalf("got served=%d overflow=%d, want served=1 overflow=0", len(served), len(overflow))
	}
}
