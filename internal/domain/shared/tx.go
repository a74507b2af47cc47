package shared

import "context"

// TxManager runs a function inside a single database transaction. The
// context passed to fn carries the transaction; repositories resolve it
// and execute against the transaction instead of the base connection.
// Row locks taken via ForUpdate finders live until fn returns.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
