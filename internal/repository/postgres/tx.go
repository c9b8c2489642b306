package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type txKey struct{}

// q returns the transaction carried by ctx, or db when none is active.
func q(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type txManager struct {
	DB *sql.DB
}

// NewTxManager returns a domain.TxManager backed by database/sql transactions.
func NewTxManager(db *sql.DB) domain.TxManager {
	return &txManager{DB: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback tx: %v (from: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
