package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"route-dispatch-service/internal/api/dto"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/services"
)

// OptimizeHandler drives the full route-computation pipeline for one
// request: credit gate, optimizer round trip, partitioning, concurrent
// path assembly and reachability warnings.
type OptimizeHandler struct {
	Planner *services.RoutePlanner
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, r, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req dto.OptimizeRequest

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

	if len(req.Markers) < 2 {
		writeError(w, r, http.StatusBadRequest, "at least 2 markers are required")
		return
	}

	config := configFromDTO(req.Config)
	if req.NumberDrivers > 0 {
		config.NumberDrivers = req.NumberDrivers
	}
	if req.ReturnToStart {
		config.ReturnToStart = true
	}
	for _, opt := range req.Options {
		switch opt {
		case "avoidHighways":
			config.AvoidHighways = true
		case "avoidTolls":
			config.AvoidTolls = true
		case "avoidFerries":
			config.AvoidFerries = true
		}
	}
	config = config.Normalized()

	stops := make([]domain.Stop, 0, len(req.Markers))
	for _, m := range req.Markers {
		stops = append(stops, stopFromDTO(m))
	}

	result, err := h.Planner.OptimizeRoute(r.Context(), services.OptimizeRequest{
		OwnerID: owner,
		Stops:   stops,
		Config:  config,
	})
	if err != nil {
		status := statusFor(err)
		log.Printf("optimize failed: owner=%s drivers=%d err=%v", owner, config.NumberDrivers, err)
		writeError(w, r, status, userFacing(err, status))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{
		RouteID:      result.RouteID,
		Routes:       routesToDTO(result.Routes),
		TotalDrivers: result.TotalDrivers,
		Warning:      result.Warning,
	})
}
