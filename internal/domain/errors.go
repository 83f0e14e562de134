package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced across component boundaries. Provider
// failures inside the path assembler never reach callers as errors;
// they degrade to straight-line output instead.
var (
	// No optimizer reply arrived before the deadline. Retryable by resubmitting.
	ErrTimeout = errors.New("optimization timed out")

	// The broker or provider could not be reached at all.
	ErrTransport = errors.New("transport unavailable")

	// Malformed stop list or non-finite coordinates.
	ErrInvalidInput = errors.New("invalid input")

	// Persistence lookup miss.
	ErrNotFound = errors.New("not found")

	// Ledger-level reservation failure: the balance no longer covers the
	// requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Gate rejection carrying the shortfall so callers can render
// a "need X, have Y" message.
type InsufficientCreditsError struct {
	Need int
	Have int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d", e.Need, e.Have)
}
