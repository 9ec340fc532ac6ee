package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// StaticQuotes is an in-memory quote table, safe for concurrent use.
type StaticQuotes struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewStaticQuotes() *StaticQuotes {
	return &StaticQuotes{quotes: make(map[string]Quote)}
}

// Set stores or replaces the quote for symbol.
func (s *StaticQuotes) Set(symbol, name string, price decimal.Decimal) {
	symbol = NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = Quote{Symbol: symbol, Name: name, Price: price}
}

func (s *StaticQuotes) Delete(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, NormalizeSymbol(symbol))
}

func (s *StaticQuotes) Quote(ctx context.Context, symbol string) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}

	symbol = NormalizeSymbol(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	if !ok {
		return Quote{}, fmt.Errorf("quote %q: %w", symbol, ErrSymbolNotFound)
	}
	return q, nil
}
