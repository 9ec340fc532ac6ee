package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/pkg/id"
	"github.com/shopspring/decimal"
)

// SQLite implements broker.Store on a single SQLite database file.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ broker.Store = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database at path and applies the schema.
func NewSQLite(path string, opts ...Option) (*SQLite, error) {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")

	db, err := sql.Open("sqlite3", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One writer at a time; a unit of work owns the connection until it ends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	j := &SQLite{db: db, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// CreateAccount registers a new account with an opening cash balance.
func (j *SQLite) CreateAccount(ctx context.Context, username, credential string, cash decimal.Decimal) (broker.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return broker.Account{}, errors.New("create account: username is required")
	}
	if cash.IsNegative() {
		return broker.Account{}, fmt.Errorf("create account: opening cash %s is negative", cash)
	}

	created := j.now().UTC()
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO accounts (username, credential, cash, created_at) VALUES (?, ?, ?, ?)`,
		username, credential, cash.String(), created,
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return broker.Account{}, fmt.Errorf("create account %q: %w", username, broker.ErrAccountExists)
		}
		return broker.Account{}, persistErr("create account", err)
	}

	accountID, err := res.LastInsertId()
	if err != nil {
		return broker.Account{}, persistErr("create account", err)
	}

	return broker.Account{
		ID:         accountID,
		Username:   username,
		Credential: credential,
		Cash:       cash,
		CreatedAt:  created,
	}, nil
}

// Update runs fn inside one SQLite transaction.
func (j *SQLite) Update(ctx context.Context, fn func(broker.Tx) error) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqliteTx{tx: tx, now: j.now}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, persistErr("rollback", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

func (j *SQLite) AccountByID(ctx context.Context, accountID int64) (broker.Account, error) {
	return accountByID(ctx, j.db, accountID)
}

func (j *SQLite) AccountByUsername(ctx context.Context, username string) (broker.Account, error) {
	return accountByUsername(ctx, j.db, strings.TrimSpace(username))
}

func (j *SQLite) Transactions(ctx context.Context, accountID int64) ([]broker.Transaction, error) {
	return transactions(ctx, j.db, accountID)
}

func (j *SQLite) NetShares(ctx context.Context, accountID int64, symbol string) (int64, error) {
	return netShares(ctx, j.db, accountID, symbol)
}

func (j *SQLite) HeldSymbols(ctx context.Context, accountID int64) ([]string, error) {
	return heldSymbols(ctx, j.db, accountID)
}

// sqliteTx is the broker.Tx handed to Update callbacks.
type sqliteTx struct {
	tx  *sql.Tx
	now func() time.Time
}

func (t *sqliteTx) AccountByID(ctx context.Context, accountID int64) (broker.Account, error) {
	return accountByID(ctx, t.tx, accountID)
}

func (t *sqliteTx) NetShares(ctx context.Context, accountID int64, symbol string) (int64, error) {
	return netShares(ctx, t.tx, accountID, symbol)
}

// UpdateCash applies delta with compare-and-commit: the write only lands if
// the stored balance is still the one it was computed from.
func (t *sqliteTx) UpdateCash(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var raw string
	err := t.tx.QueryRowContext(ctx, `SELECT cash FROM accounts WHERE id = ?`, accountID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, fmt.Errorf("account %d: %w", accountID, broker.ErrAccountNotFound)
		}
		return decimal.Decimal{}, persistErr("read cash", err)
	}

	cash, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, persistErr("parse cash", err)
	}

	next := cash.Add(delta)
	if next.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("account %d: cash %s, delta %s: %w", accountID, cash, delta, broker.ErrInsufficientFunds)
	}

	res, err := t.tx.ExecContext(ctx,
		`UPDATE accounts SET cash = ? WHERE id = ? AND cash = ?`,
		next.String(), accountID, raw,
	)
	if err != nil {
		return decimal.Decimal{}, persistErr("update cash", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return decimal.Decimal{}, persistErr("update cash", err)
	}
	if n != 1 {
		return decimal.Decimal{}, persistErr("update cash", fmt.Errorf("account %d balance changed underneath", accountID))
	}
	return next, nil
}

// Append inserts rec. Commit times never go backwards within an account.
func (t *sqliteTx) Append(ctx context.Context, rec broker.Transaction) (broker.Transaction, error) {
	if rec.Shares == 0 {
		return broker.Transaction{}, fmt.Errorf("append: zero shares: %w", broker.ErrInvalidQuantity)
	}
	if !rec.Price.IsPositive() {
		return broker.Transaction{}, fmt.Errorf("append: price %s must be positive: %w", rec.Price, broker.ErrQuoteUnavailable)
	}

	commit := t.now().UTC()
	var last time.Time
	err := t.tx.QueryRowContext(ctx, `
		SELECT commit_time FROM transactions
		WHERE account_id = ?
		ORDER BY commit_time DESC, seq DESC
		LIMIT 1`, rec.AccountID).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return broker.Transaction{}, persistErr("read last commit", err)
	case commit.Before(last):
		commit = last.UTC()
	}

	rec.ID = id.NewAt(commit)
	rec.Time = commit

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO transactions
		(id, account_id, symbol, shares, price, commit_time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AccountID, rec.Symbol, rec.Shares, rec.Price.String(), rec.Time,
	)
	if err != nil {
		return broker.Transaction{}, persistErr("append", err)
	}
	return rec, nil
}
