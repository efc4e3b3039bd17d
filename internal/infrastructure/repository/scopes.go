package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ctxKey string

const (
	// TxKey is the context key for the transaction of the current unit of work
	TxKey ctxKey = "ledger_tx"
)

// WithTx adds an open transaction to context
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

// GetTx extracts the transaction from context
func GetTx(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(TxKey).(*gorm.DB)
	return tx, ok
}

// conn returns the transaction carried by ctx, or the root handle when the
// call runs outside a unit of work. Repositories must never touch the root
// handle while a transaction is open: with SQLite's single connection that
// would wait forever.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := GetTx(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// ForUpdate returns a GORM scope that takes a row lock on the selected rows.
// SQLite has no row locks; its single connection already serializes writers.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() == "sqlite" {
			return db
		}
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
