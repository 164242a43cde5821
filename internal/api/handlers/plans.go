package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"vrpengine/internal/api/dto"
	"vrpengine/internal/config"
	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
	"vrpengine/internal/ports"
	"vrpengine/internal/services"
)

// PlanHandler orchestrates warehouse allocation, CVRP solving and TSP
// reoptimization for POST /routes/plan (spec §6).
type PlanHandler struct {
	Config   *config.MainConfig
	Provider ports.MatrixProvider
}

// Plan decodes a customer list, runs the full routing pipeline against
// the server's loaded configuration, and responds with the winning
// solution.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Customers) == 0 {
		writeError(w, r, http.StatusBadRequest, "customers must not be empty")
		return
	}

	customers := make([]*domain.Customer, 0, len(req.Customers))
	for _, cr := range req.Customers {
		c, err := domain.NewCustomer(cr.ID, cr.Name, geo.Point{Lat: cr.Lat, Lon: cr.Lon}, cr.HasCoordinates, cr.Volume, cr.RawGPS)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		customers = append(customers, c)
	}

	cfg := applyOverrides(*h.Config, req.VehicleOverrides)

	timeLimit := time.Duration(cfg.Solver.TimeLimitSeconds) * time.Second
	if req.TimeLimitSeconds > 0 {
		timeLimit = time.Duration(req.TimeLimitSeconds) * time.Second
	}

	result, err := services.PlanRoutes(r.Context(), customers, &cfg, h.Provider, timeLimit)
	if err != nil {
		log.Printf("plan routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(result))
}

// applyOverrides copies cfg and replaces any fleet class named by
// req.VehicleOverrides, letting a single request resize or disable a
// class without touching the server's loaded YAML.
func applyOverrides(cfg config.MainConfig, overrides []dto.VehicleOverride) config.MainConfig {
	if len(overrides) == 0 {
		return cfg
	}

	byClass := make(map[string]dto.VehicleOverride, len(overrides))
	for _, o := range overrides {
		byClass[o.Class] = o
	}

	fleet := make([]config.VehicleSpec, len(cfg.FleetSpecs))
	copy(fleet, cfg.FleetSpecs)
	for i, v := range fleet {
		o, ok := byClass[v.Class]
		if !ok {
			continue
		}
		if o.Enabled != nil {
			v.Enabled = *o.Enabled
		}
		if o.Count != nil {
			v.Count = *o.Count
		}
		if o.Capacity != nil {
			v.Capacity = *o.Capacity
		}
		fleet[i] = v
	}
	cfg.FleetSpecs = fleet
	return cfg
}

func toPlanResponse(result *services.PlanResult) dto.PlanResponse {
	sol := result.Solution

	routes := make([]dto.RouteResponse, 0, len(sol.Routes))
	for _, route := range sol.Routes {
		stops := make([]dto.StopResponse, 0, len(route.Customers))
		for _, c := range route.Customers {
			stops = append(stops, dto.StopResponse{CustomerID: c.ID, Name: c.Name, Volume: c.Volume})
		}
		routes = append(routes, dto.RouteResponse{
			RouteID:          route.ID.String(),
			VehicleClass:     string(route.Class),
			VehicleOrdinal:   route.Ordinal,
			Stops:            stops,
			TotalDistanceKm:  route.TotalDistanceKm,
			TotalDurationMin: route.TotalDurationMin,
			TotalLoad:        route.TotalLoad,
		})
	}

	overflow := make([]dto.OverflowResponse, 0, len(sol.Overflow))
	for _, o := range sol.Overflow {
		overflow = append(overflow, dto.OverflowResponse{
			CustomerID: o.Customer.ID,
			Name:       o.Customer.Name,
			Reason:     string(o.Reason),
		})
	}

	return dto.PlanResponse{
		SolutionID:   sol.ID.String(),
		Strategy:     string(result.Strategy),
		MetaStrategy: string(result.Meta),
		Routes:       routes,
		Overflow:     overflow,
		Fitness: dto.FitnessResponse{
			TotalDistanceKm:  sol.Fitness.TotalDistanceKm,
			TotalDurationMin: sol.Fitness.TotalDurationMin,
			VehiclesUsed:     sol.Fitness.VehiclesUsed,
		},
		MatrixSize:       result.Matrix.Size(),
		SolveTimeSeconds: sol.SolveTime.Seconds(),
		GeneratedAt:      time.Now(),
	}
}
