package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"route-dispatch-service/internal/api/dto"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
)

// CreditsHandler exposes the prepaid balance. Checkout/billing UI is
// outside this service; top-ups arrive here already authorized.
type CreditsHandler struct {
	Ledger ports.CreditLedger
}

func (h *CreditsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, r, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	balance, err := h.Ledger.Balance(r.Context(), owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No account yet reads as an empty balance, not an error.
			writeJSON(w, r, http.StatusOK, dto.BalanceResponse{Balance: 0})
			return
		}
		log.Printf("balance read failed: owner=%s err=%v", owner, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

func (h *CreditsHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, r, http.StatusUnauthorized, "missing X-User-ID header")
		return
	}

	var req dto.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	defer r.Body.Close()

	if req.Amount <= 0 {
		writeError(w, r, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := h.Ledger.Credit(r.Context(), owner, req.Amount); err != nil {
		log.Printf("top up failed: owner=%s amount=%d err=%v", owner, req.Amount, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	balance, err := h.Ledger.Balance(r.Context(), owner)
	if err != nil {
		log.Printf("balance read after top up failed: owner=%s err=%v", owner, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.BalanceResponse{Balance: balance})
}
