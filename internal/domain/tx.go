package domain

import "context"

// TxManager runs a function inside a single store transaction. The derived
// context carries the transaction; repositories issue their statements
// against it so that reads and writes within fn are isolated together.
// fn returning an error rolls the transaction back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
