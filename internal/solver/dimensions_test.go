package solver

import (
	"testing"

	"vrpengine/internal/domain"
)

func TestInitialRouteStateSeedsDurationFromStartTime(t *testing.T) {
	cfg := domain.VehicleConfig{StartTimeMinutes: 480}
	state := initialRouteState(cfg)
	if state.DurationMin != 480 {
		t.Fatalf("DurationMin = %v, want 480", state.DurationMin)
	}
}

func TestFeasibleAppendHonorsVehicleStartTime(t *testing.T) {
	m := testModel(t)
	cfg := domain.VehicleConfig{Capacity: 100, MaxTimeMinutes: 100, StartTimeMinutes: 95}

	state := initialRouteState(cfg)
	// One minute of driving plus no service time would push the vehicle
	// to 96 minutes of wall-clock time, within the 100 minute ceiling.
	_, ok := m.feasibleAppend(cfg, state, 0, 1, 1, 0)
	if !ok {
		t.Fatal("feasibleAppend() = false, want true for a leg that fits before MaxTimeMinutes")
	}

	// A vehicle starting late in the day should be held to the same
	// wall-clock ceiling as one starting at time zero, not get a fresh
	// allotment of MaxTimeMinutes from its own start.
	cfg.StartTimeMinutes = 99
	state = initialRouteState(cfg)
	_, ok = m.feasibleAppend(cfg, state, 0, 3, 1, 0)
	if ok {
		t.Fatal("feasibleAppend() = true, want false once start time plus leg duration exceeds MaxTimeMinutes")
	}
}
