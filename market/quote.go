package market

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrSymbolNotFound is returned when a quote source does not know a ticker.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrQuoteUnavailable is returned when a quote could not be obtained right now.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// Quote is the current name and price of a ticker.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// Quoter returns a fresh quote for a symbol on every call.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// NormalizeSymbol returns the canonical form of a ticker: trimmed and upper case.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
