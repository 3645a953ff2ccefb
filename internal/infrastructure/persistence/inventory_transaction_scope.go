package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/retailops/backend/internal/application/inventory"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Repository writes and the outbox rows saved through SaveEvents commit or
// roll back together.
type GormTransactionScope struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

// NewGormTransactionScope creates a new GormTransactionScope. The outbox
// saver may be nil, in which case domain events are not persisted.
func NewGormTransactionScope(db *gorm.DB, outbox shared.OutboxEventSaver) *GormTransactionScope {
	return &GormTransactionScope{db: db, outbox: outbox}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outbox: s.outbox}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the inventory
// repositories bound to the current transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	outbox shared.OutboxEventSaver
}

// BatchRepo returns the stock batch repository scoped to the transaction.
func (r *gormTransactionalRepositories) BatchRepo() inventory.StockBatchRepository {
	return NewGormStockBatchRepository(r.tx)
}

// ChangeRepo returns the stock change repository scoped to the transaction.
func (r *gormTransactionalRepositories) ChangeRepo() inventory.StockChangeRepository {
	return NewGormStockChangeRepository(r.tx)
}

// TransferRepo returns the stock transfer repository scoped to the transaction.
func (r *gormTransactionalRepositories) TransferRepo() inventory.StockTransferRepository {
	return NewGormStockTransferRepository(r.tx)
}

// ReplenishmentRepo returns the replenishment repository scoped to the transaction.
func (r *gormTransactionalRepositories) ReplenishmentRepo() inventory.ReplenishmentRepository {
	return NewGormReplenishmentRepository(r.tx)
}

// SaveEvents writes domain events to the outbox within the transaction.
func (r *gormTransactionalRepositories) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if r.outbox == nil || len(events) == 0 {
		return nil
	}
	return r.outbox.SaveEvents(ctx, r.tx, events...)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
