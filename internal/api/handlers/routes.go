package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"route-dispatch-service/internal/api/dto"
	"route-dispatch-service/internal/services"
)

// RoutesHandler exposes the saved-route lifecycle: save (trimmed), list,
// load (re-expanded through the path assembler) and delete.
type RoutesHandler struct {
	Saved *services.SavedRoutes
	Cache *services.RouteCache
}

// Save persists a previously computed route set referenced by the route
// id returned from /optimize. The geometry is trimmed before storage.
func (h *RoutesHandler) Save(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, r, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req dto.SaveRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	defer r.Body.Close()

	cached, ok := h.Cache.Get(req.RouteID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "route is no longer available; re-run the optimization")
		return
	}

	id, err := h.Saved.Save(r.Context(), owner, req.Name, cached.Config, cached.Markers, cached.Routes)
	if err != nil {
		status := statusFor(err)
		log.Printf("save route failed: owner=%s err=%v", owner, err)
		writeError(w, r, status, userFacing(err, status))
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.SaveRouteResponse{ID: id})
}

func (h *RoutesHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, r, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	refs, err := h.Saved.List(r.Context(), owner)
	if err != nil {
		log.Printf("list routes failed: owner=%s err=%v", owner, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.SavedRouteRefDTO, 0, len(refs))}
	for _, ref := range refs {
		res.Routes = append(res.Routes, dto.SavedRouteRefDTO{ID: ref.ID, Name: ref.Name})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Load retrieves a trimmed document and re-runs path assembly so the
// response carries full geometry again.
func (h *RoutesHandler) Load(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, routes, err := h.Saved.Load(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		log.Printf("load route failed: id=%s err=%v", id, err)
		writeError(w, r, status, userFacing(err, status))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LoadRouteResponse{
		Timestamp:  doc.Timestamp,
		Config:     configToDTO(doc.Config),
		NumDrivers: doc.NumDrivers,
		Markers:    stopsToDTO(doc.Markers),
		Routes:     routesToDTO(routes),
	})
}

func (h *RoutesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, r, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	id := r.PathValue("id")
	if err := h.Saved.Delete(r.Context(), owner, id); err != nil {
		status := statusFor(err)
		log.Printf("delete route failed: owner=%s id=%s err=%v", owner, id, err)
		writeError(w, r, status, userFacing(err, status))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
