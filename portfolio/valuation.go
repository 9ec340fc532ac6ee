// Package portfolio values an account's holdings at current market prices.
package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/market"
	"github.com/shopspring/decimal"
)

// Reader is the read-only slice of broker.Store the valuator needs.
type Reader interface {
	AccountByID(ctx context.Context, id int64) (broker.Account, error)
	NetShares(ctx context.Context, accountID int64, symbol string) (int64, error)
	HeldSymbols(ctx context.Context, accountID int64) ([]string, error)
}

// Holding is one open position valued at the latest quote.
type Holding struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal // Shares * Price rounded to cents
}

// Valuation is an account's cash and open positions at current prices.
type Valuation struct {
	AccountID int64
	Cash      decimal.Decimal
	Holdings  []Holding // sorted by symbol, zero positions omitted
	Stocks    decimal.Decimal
	Total     decimal.Decimal // Cash + Stocks
}

// Valuator prices accounts from the ledger and a quote source.
type Valuator struct {
	store  Reader
	quotes market.Quoter
}

// NewValuator returns a Valuator reading positions from store.
func NewValuator(store Reader, quotes market.Quoter) *Valuator {
	return &Valuator{store: store, quotes: quotes}
}

// Valuate quotes every held symbol once and totals the account.
func (v *Valuator) Valuate(ctx context.Context, accountID int64) (Valuation, error) {
	acct, err := v.store.AccountByID(ctx, accountID)
	if err != nil {
		return Valuation{}, err
	}

	symbols, err := v.store.HeldSymbols(ctx, accountID)
	if err != nil {
		return Valuation{}, err
	}

	val := Valuation{
		AccountID: accountID,
		Cash:      acct.Cash,
		Holdings:  make([]Holding, 0, len(symbols)),
		Stocks:    decimal.Zero,
	}

	for _, sym := range symbols {
		shares, err := v.store.NetShares(ctx, accountID, sym)
		if err != nil {
			return Valuation{}, err
		}
		if shares <= 0 {
			// sold off since HeldSymbols ran
			continue
		}

		q, err := v.quotes.Quote(ctx, sym)
		if err != nil {
			if !errors.Is(err, market.ErrSymbolNotFound) && !errors.Is(err, market.ErrQuoteUnavailable) {
				err = fmt.Errorf("%w: %w", market.ErrQuoteUnavailable, err)
			}
			return Valuation{}, fmt.Errorf("value %s: %w", sym, err)
		}
		if !q.Price.IsPositive() {
			return Valuation{}, fmt.Errorf("value %s: non-positive price %s: %w", sym, q.Price, market.ErrQuoteUnavailable)
		}

		h := Holding{
			Symbol: sym,
			Name:   q.Name,
			Shares: shares,
			Price:  q.Price,
			Value:  MarketValue(shares, q.Price),
		}
		val.Holdings = append(val.Holdings, h)
		val.Stocks = val.Stocks.Add(h.Value)
	}

	val.Total = val.Cash.Add(val.Stocks)
	return val, nil
}

// MarketValue is shares * price rounded half up to two decimal places.
func MarketValue(shares int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(shares)).Round(2)
}
