package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"route-dispatch-service/internal/domain"
	"strings"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

// writeError emits the boundary error shape: an object with a details
// string and a non-2xx status.
func writeError(w http.ResponseWriter, r *http.Request, status int, details string) {
	writeJSON(w, r, status, map[string]string{"details": details})
}

// statusFor maps the failure taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var insufficient *domain.InsufficientCreditsError
	switch {
	case errors.As(err, &insufficient):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userFacing trims internal wrapping for statuses whose cause the caller
// can act on; everything else stays generic.
func userFacing(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

// ownerID reads the authenticated account id injected by the fronting
// auth layer (session handling itself is outside this service).
func ownerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}
