// Package postgres implements the repository interfaces over database/sql.
// Repositories hold a Querier rather than *sql.DB so the same code runs on a
// pooled connection or inside a transaction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pdfmarket/internal/repository"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Atomic implements repository.Atomic using SQL transactions.
type Atomic struct {
	db *sql.DB
}

// NewAtomic creates a transaction runner over the given database handle.
func NewAtomic(db *sql.DB) *Atomic {
	return &Atomic{db: db}
}

var _ repository.Atomic = (*Atomic)(nil)

// Transact runs fn inside a serializable transaction. Serializable isolation
// makes the purchase's read-check-write sequence safe against a concurrent
// purchase touching the same accounts: one of the two transactions fails to
// commit instead of both debiting from a stale balance.
func (a *Atomic) Transact(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := a.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&boundTx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w; rollback failed: %v", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// boundTx hands out repository views bound to one open transaction.
type boundTx struct {
	tx *sql.Tx
}

func (b *boundTx) Accounts() repository.AccountRepository {
	return NewAccountPostgres(b.tx)
}

func (b *boundTx) Purchases() repository.PurchaseRepository {
	return NewPurchasePostgres(b.tx)
}
