package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/papertrade/market"
	"github.com/shopspring/decimal"
)

type side int8

const (
	buy side = iota
	sell
)

func (s side) String() string {
	if s == sell {
		return "sell"
	}
	return "buy"
}

// state is the read side shared by Store and Tx.
type state interface {
	AccountByID(ctx context.Context, id int64) (Account, error)
	NetShares(ctx context.Context, accountID int64, symbol string) (int64, error)
}

// Engine validates and commits buy and sell orders.
//
// Quotes are fetched before the per-account lock is taken; funds and
// holdings are then checked again inside the store transaction, so the
// lock is never held across network calls.
type Engine struct {
	store  Store
	quotes market.Quoter
	log    *slog.Logger
	locks  accountLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine returns an engine trading against store at prices from quotes.
func NewEngine(store Store, quotes market.Quoter, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		quotes: quotes,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Buy purchases quantity shares of symbol for the account at the current
// quoted price and returns the committed record and remaining cash.
func (e *Engine) Buy(ctx context.Context, accountID int64, symbol string, quantity int64) (Receipt, error) {
	return e.trade(ctx, buy, accountID, symbol, quantity)
}

// Sell disposes of quantity shares of symbol held by the account at the
// current quoted price.
func (e *Engine) Sell(ctx context.Context, accountID int64, symbol string, quantity int64) (Receipt, error) {
	return e.trade(ctx, sell, accountID, symbol, quantity)
}

func (e *Engine) trade(ctx context.Context, s side, accountID int64, symbol string, quantity int64) (Receipt, error) {
	symbol = market.NormalizeSymbol(symbol)

	if quantity <= 0 {
		return Receipt{}, e.reject(s, accountID, symbol, quantity,
			fmt.Errorf("%s %d %s: %w", s, quantity, symbol, ErrInvalidQuantity))
	}

	price, err := e.price(ctx, symbol)
	if err != nil {
		return Receipt{}, e.reject(s, accountID, symbol, quantity, err)
	}

	amount := price.Mul(decimal.NewFromInt(quantity))
	rec := Transaction{
		AccountID: accountID,
		Symbol:    symbol,
		Shares:    quantity,
		Price:     price,
	}
	delta := amount.Neg()
	if s == sell {
		rec.Shares = -quantity
		delta = amount
	}

	// Reject early on stale-but-recent state so obvious failures never
	// queue behind the account lock.
	if err := e.check(ctx, e.store, s, rec, amount); err != nil {
		return Receipt{}, e.reject(s, accountID, symbol, quantity, err)
	}

	unlock := e.locks.lock(accountID)
	defer unlock()

	var cash decimal.Decimal
	err = e.store.Update(ctx, func(tx Tx) error {
		if err := e.check(ctx, tx, s, rec, amount); err != nil {
			return err
		}

		var err error
		cash, err = tx.UpdateCash(ctx, accountID, delta)
		if err != nil {
			return err
		}

		rec, err = tx.Append(ctx, rec)
		return err
	})
	if err != nil {
		return Receipt{}, e.reject(s, accountID, symbol, quantity, err)
	}

	e.log.Info("trade committed",
		"side", s.String(),
		"account", accountID,
		"symbol", symbol,
		"shares", rec.Shares,
		"price", price.String(),
		"cash", cash.String(),
		"id", rec.ID,
	)

	return Receipt{Transaction: rec, Cash: cash}, nil
}

// price resolves a fresh, positive quote for symbol.
func (e *Engine) price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if symbol == "" {
		return decimal.Decimal{}, fmt.Errorf("empty symbol: %w", ErrSymbolNotFound)
	}

	q, err := e.quotes.Quote(ctx, symbol)
	if err != nil {
		if !errors.Is(err, ErrSymbolNotFound) && !errors.Is(err, ErrQuoteUnavailable) {
			// Anything else from a quote source is treated as transient.
			err = fmt.Errorf("quote %s: %w: %w", symbol, ErrQuoteUnavailable, err)
		}
		return decimal.Decimal{}, err
	}
	if !q.Price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("quote %s: non-positive price %s: %w", symbol, q.Price, ErrQuoteUnavailable)
	}
	return q.Price, nil
}

// check validates rec against the account's current cash or holdings.
func (e *Engine) check(ctx context.Context, st state, s side, rec Transaction, amount decimal.Decimal) error {
	acct, err := st.AccountByID(ctx, rec.AccountID)
	if err != nil {
		return err
	}

	switch s {
	case buy:
		if amount.GreaterThan(acct.Cash) {
			return fmt.Errorf("buy %d %s costs %s, cash %s: %w",
				rec.Shares, rec.Symbol, amount, acct.Cash, ErrInsufficientFunds)
		}
	case sell:
		held, err := st.NetShares(ctx, rec.AccountID, rec.Symbol)
		if err != nil {
			return err
		}
		if -rec.Shares > held {
			return fmt.Errorf("sell %d %s, holding %d: %w",
				-rec.Shares, rec.Symbol, held, ErrInsufficientShares)
		}
	}
	return nil
}

func (e *Engine) reject(s side, accountID int64, symbol string, quantity int64, err error) error {
	err = classify(err)
	e.log.Debug("trade rejected",
		"side", s.String(),
		"account", accountID,
		"symbol", symbol,
		"quantity", quantity,
		"err", err,
	)
	return err
}
