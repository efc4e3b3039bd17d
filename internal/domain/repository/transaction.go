package repository

import "context"

// TxManager runs a unit of work inside one database transaction. Repositories
// called with the context handed to fn share that transaction; a nested call
// joins the outer transaction instead of opening a new one.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
