package broker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a brokerage account. Cash is never negative.
type Account struct {
	ID         int64
	Username   string
	Credential string // opaque to the broker
	Cash       decimal.Decimal
	CreatedAt  time.Time
}

// Transaction is one committed trade in the ledger. Shares is positive for a
// buy and negative for a sell. Records are immutable once committed.
type Transaction struct {
	ID        string
	AccountID int64
	Symbol    string
	Shares    int64
	Price     decimal.Decimal
	Time      time.Time
}

// Amount is the signed cash effect of the transaction on its account.
func (t Transaction) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares)).Neg()
}

// Receipt is returned for a committed trade.
type Receipt struct {
	Transaction Transaction
	Cash        decimal.Decimal // post-trade cash balance
}

// Accounts reads account identity and balance.
type Accounts interface {
	AccountByID(ctx context.Context, id int64) (Account, error)
	AccountByUsername(ctx context.Context, username string) (Account, error)
}

// Ledger reads the append-only transaction log and the holdings derived from it.
type Ledger interface {
	// Transactions returns the account's records in commit order.
	Transactions(ctx context.Context, accountID int64) ([]Transaction, error)
	// NetShares is the sum of signed shares for (account, symbol).
	NetShares(ctx context.Context, accountID int64, symbol string) (int64, error)
	// HeldSymbols returns the symbols with positive net shares, sorted.
	HeldSymbols(ctx context.Context, accountID int64) ([]string, error)
}

// Tx is a unit of work against the store. Nothing it writes is visible to
// others until the enclosing Update returns nil.
type Tx interface {
	AccountByID(ctx context.Context, id int64) (Account, error)
	NetShares(ctx context.Context, accountID int64, symbol string) (int64, error)

	// UpdateCash adds delta to the account's cash and returns the new
	// balance. It fails with ErrInsufficientFunds rather than go below zero.
	UpdateCash(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error)

	// Append adds rec to the ledger, assigning its ID and commit time.
	Append(ctx context.Context, rec Transaction) (Transaction, error)
}

// Store persists accounts and the ledger.
type Store interface {
	Accounts
	Ledger

	CreateAccount(ctx context.Context, username, credential string, cash decimal.Decimal) (Account, error)

	// Update runs fn in a single atomic unit of work. If fn returns an
	// error every write it made is discarded.
	Update(ctx context.Context, fn func(Tx) error) error
}
