package ports

import "context"

// Port: the credit account store. Balance and Credit are plain reads and
// writes; Reserve is the atomic conditional debit the metering gate uses
// (single UPDATE guarded by balance >= amount), and Release refunds a
// reservation whose gated action failed.
type CreditLedger interface {
	// Balance returns the current balance for an owner.
	// Missing accounts report domain.ErrNotFound.
	Balance(ctx context.Context, ownerID string) (int, error)

	// Reserve atomically deducts amount if and only if the balance covers
	// it. Returns the remaining balance on success.
	Reserve(ctx context.Context, ownerID string, amount int) (int, error)

	// Release refunds a previously reserved amount.
	Release(ctx context.Context, ownerID string, amount int) error

	// Credit tops up an account, creating it if absent.
	Credit(ctx context.Context, ownerID string, amount int) error
}
