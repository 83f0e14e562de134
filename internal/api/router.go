package api

import (
	"net/http"
	"route-dispatch-service/internal/api/handlers"
	"route-dispatch-service/internal/ports"
	"route-dispatch-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters).
func NewRouter(
	planner *services.RoutePlanner,
	saved *services.SavedRoutes,
	cache *services.RouteCache,
	ledger ports.CreditLedger,
) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{Planner: planner}
	routesHandler := &handlers.RoutesHandler{Saved: saved, Cache: cache}
	creditsHandler := &handlers.CreditsHandler{Ledger: ledger}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /optimize", optimizeHandler.Optimize)
	mux.HandleFunc("POST /routes", routesHandler.Save)
	mux.HandleFunc("GET /routes", routesHandler.List)
	mux.HandleFunc("GET /routes/{id}", routesHandler.Load)
	mux.HandleFunc("DELETE /routes/{id}", routesHandler.Delete)
	mux.HandleFunc("GET /credits", creditsHandler.Balance)
	mux.HandleFunc("POST /credits", creditsHandler.TopUp)

	return loggingMiddleware(mux)
}
