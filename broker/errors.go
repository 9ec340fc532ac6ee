package broker

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/papertrade/market"
)

var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrSymbolNotFound     = market.ErrSymbolNotFound
	ErrQuoteUnavailable   = market.ErrQuoteUnavailable
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrPersistence means the store could not durably record a change.
	// No partial effect of the failed operation is visible.
	ErrPersistence = errors.New("persistence failure")

	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

var known = []error{
	ErrInvalidQuantity,
	ErrSymbolNotFound,
	ErrQuoteUnavailable,
	ErrInsufficientFunds,
	ErrInsufficientShares,
	ErrPersistence,
	ErrAccountNotFound,
	ErrAccountExists,
}

// classify makes sure err carries one of the broker error kinds.
// Anything unrecognised came from the store and is a persistence failure.
func classify(err error) error {
	for _, k := range known {
		if errors.Is(err, k) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
