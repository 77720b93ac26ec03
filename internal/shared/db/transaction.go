// Package db carries the active gorm transaction through context so that
// repositories participate in whatever unit of work the use case opened.
package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxRunner runs fn inside a single transaction. Use cases depend on this
// rather than on *TransactionManager so tests can substitute a pass-through.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionManager opens gorm transactions and stores them in the context.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction commits when fn returns nil and rolls back otherwise.
// Nested calls reuse the outer transaction.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTxFromContext returns the transaction stored in ctx, or defaultDB bound
// to ctx when no transaction is active.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}
