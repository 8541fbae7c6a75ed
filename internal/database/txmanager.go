package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ctxTxKey struct{}

// Querier is satisfied by both *sql.DB and *sql.Tx so repositories can run the
// same statements inside or outside a unit of work.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager groups repository writes into one unit of work.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UnitOfWork is the TxManager backed by a *sql.DB.
type UnitOfWork struct {
	db *sql.DB
}

// NewTxManager returns a TxManager that opens transactions on db.
func NewTxManager(db *sql.DB) TxManager {
	return &UnitOfWork{db: db}
}

// WithTx runs fn with a transaction attached to its context. A nil return commits;
// an error or a panic rolls back. When ctx already carries a transaction fn joins it
// and the outermost call decides the outcome.
func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, ctxTxKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(ctxTxKey{}).(*sql.Tx)
	return ok
}

// GetTx returns the transaction carried by ctx, falling back to db.
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(ctxTxKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
