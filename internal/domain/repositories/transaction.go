package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
// Repository calls made with the ctx passed to fn join the transaction;
// a non-nil return from fn rolls every one of them back.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
