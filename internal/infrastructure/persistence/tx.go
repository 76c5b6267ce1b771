package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/milkroute/backend/internal/domain/shared"
)

type txContextKey struct{}

// withTx stores a transactional handle in the context for repositories to
// pick up via conn.
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// conn resolves the database handle for a call: the transaction carried by
// the context when one is open, the repository's own handle otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// GormTransactionManager implements shared.TransactionManager on top of
// gorm's transaction support
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction runs fn inside one database transaction. Repositories
// called with the context handed to fn join that transaction; any error from
// fn rolls the whole unit back.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

var _ shared.TransactionManager = (*GormTransactionManager)(nil)
