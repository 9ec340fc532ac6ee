package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/papertrade/broker"
)

const accountColumns = `id, username, credential, cash, created_at`

func scanAccount(row *sql.Row) (broker.Account, error) {
	var a broker.Account
	err := row.Scan(&a.ID, &a.Username, &a.Credential, &a.Cash, &a.CreatedAt)
	return a, err
}

func accountByID(ctx context.Context, q querier, accountID int64) (broker.Account, error) {
	a, err := scanAccount(q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return broker.Account{}, fmt.Errorf("account %d: %w", accountID, broker.ErrAccountNotFound)
		}
		return broker.Account{}, persistErr("get account", err)
	}
	return a, nil
}

func accountByUsername(ctx context.Context, q querier, username string) (broker.Account, error) {
	a, err := scanAccount(q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return broker.Account{}, fmt.Errorf("account %q: %w", username, broker.ErrAccountNotFound)
		}
		return broker.Account{}, persistErr("get account", err)
	}
	return a, nil
}

// transactions returns the account's ledger in commit order.
func transactions(ctx context.Context, q querier, accountID int64) ([]broker.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, account_id, symbol, shares, price, commit_time
		FROM transactions
		WHERE account_id = ?
		ORDER BY commit_time ASC, seq ASC`, accountID)
	if err != nil {
		return nil, persistErr("list transactions", err)
	}
	defer rows.Close()

	var out []broker.Transaction
	for rows.Next() {
		var rec broker.Transaction
		if err := rows.Scan(
			&rec.ID,
			&rec.AccountID,
			&rec.Symbol,
			&rec.Shares,
			&rec.Price,
			&rec.Time,
		); err != nil {
			return nil, persistErr("scan transaction", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list transactions", err)
	}
	return out, nil
}

func netShares(ctx context.Context, q querier, accountID int64, symbol string) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(shares), 0)
		FROM transactions
		WHERE account_id = ? AND symbol = ?`, accountID, symbol).Scan(&n)
	if err != nil {
		return 0, persistErr("net shares", err)
	}
	return n, nil
}

func heldSymbols(ctx context.Context, q querier, accountID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT symbol
		FROM transactions
		WHERE account_id = ?
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol ASC`, accountID)
	if err != nil {
		return nil, persistErr("held symbols", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, persistErr("scan symbol", err)
		}
		out = append(out, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("held symbols", err)
	}
	return out, nil
}
