// Package journal persists accounts and the append-only trade ledger in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/papertrade/broker"
)

// Option configures a SQLite store.
type Option func(*SQLite)

// WithClock overrides the clock used to stamp commit times.
func WithClock(now func() time.Time) Option {
	return func(j *SQLite) {
		if now != nil {
			j.now = now
		}
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", broker.ErrPersistence, op, err)
}
