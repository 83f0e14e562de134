package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
)

// Credit costs per billable action.
const (
	OptimizeCostPerDriver = 10
	SaveCost              = 10
)

// OptimizeCost is 10 credits per requested driver.
func OptimizeCost(driverCount int) int {
	if driverCount < 1 {
		driverCount = 1
	}
	return OptimizeCostPerDriver * driverCount
}

// CreditGate wraps every billable action in a reserve/release pair.
// The reservation itself is a single conditional update in the ledger, so
// two concurrent actions from one account cannot both pass on a balance
// that covers only one of them. The preliminary balance read exists only
// to phrase the rejection ("need X, have Y").
type CreditGate struct {
	Ledger ports.CreditLedger
}

// Reserve authorizes an action costing amount. An unavailable or
// non-positive balance blocks the action outright; a positive balance
// below cost blocks with the shortfall attached. On success the amount is
// already deducted; call Release if the gated action then fails.
func (g *CreditGate) Reserve(ctx context.Context, ownerID string, amount int) error {
	balance, err := g.Ledger.Balance(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.InsufficientCreditsError{Need: amount, Have: 0}
		}
		return fmt.Errorf("credit gate: read balance: %w", err)
	}
	if balance <= 0 || balance < amount {
		return &domain.InsufficientCreditsError{Need: amount, Have: balance}
	}

	if _, err := g.Ledger.Reserve(ctx, ownerID, amount); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrNotFound) {
			// Lost the race against a concurrent spend.
			return &domain.InsufficientCreditsError{Need: amount, Have: balance}
		}
		return fmt.Errorf("credit gate: reserve %d: %w", amount, err)
	}
	return nil
}

// Release refunds a reservation whose gated action did not complete.
func (g *CreditGate) Release(ctx context.Context, ownerID string, amount int) {
	if err := g.Ledger.Release(ctx, ownerID, amount); err != nil {
		log.Printf("credit gate: release %d for owner=%s failed: %v", amount, ownerID, err)
	}
}
