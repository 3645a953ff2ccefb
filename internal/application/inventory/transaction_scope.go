package inventory

import (
	"context"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// TransactionScope runs a function inside one database transaction. All
// repository operations made through the provided TransactionalRepositories
// commit or roll back together with the outbox rows saved via SaveEvents.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the inventory repositories bound to the
// current transaction. SaveEvents writes domain events to the transactional
// outbox so they are delivered only if the surrounding mutation commits.
type TransactionalRepositories interface {
	// BatchRepo returns the stock batch repository scoped to the transaction
	BatchRepo() inventory.StockBatchRepository
	// ChangeRepo returns the stock change repository scoped to the transaction
	ChangeRepo() inventory.StockChangeRepository
	// TransferRepo returns the stock transfer repository scoped to the transaction
	TransferRepo() inventory.StockTransferRepository
	// ReplenishmentRepo returns the replenishment repository scoped to the transaction
	ReplenishmentRepo() inventory.ReplenishmentRepository
	// SaveEvents saves domain events to the outbox within the transaction
	SaveEvents(ctx context.Context, events ...shared.DomainEvent) error
}

// NoOpTransactionScope runs functions without a real transaction. Events
// are handed to the optional publisher immediately. Useful for tests.
type NoOpTransactionScope struct {
	batchRepo         inventory.StockBatchRepository
	changeRepo        inventory.StockChangeRepository
	transferRepo      inventory.StockTransferRepository
	replenishmentRepo inventory.ReplenishmentRepository
	publisher         shared.EventPublisher
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories. The publisher may be nil, in which case events are dropped.
func NewNoOpTransactionScope(
	batchRepo inventory.StockBatchRepository,
	changeRepo inventory.StockChangeRepository,
	transferRepo inventory.StockTransferRepository,
	replenishmentRepo inventory.ReplenishmentRepository,
	publisher shared.EventPublisher,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:         batchRepo,
		changeRepo:        changeRepo,
		transferRepo:      transferRepo,
		replenishmentRepo: replenishmentRepo,
		publisher:         publisher,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the stock batch repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.StockBatchRepository {
	return s.batchRepo
}

// ChangeRepo returns the stock change repository.
func (s *NoOpTransactionScope) ChangeRepo() inventory.StockChangeRepository {
	return s.changeRepo
}

// TransferRepo returns the stock transfer repository.
func (s *NoOpTransactionScope) TransferRepo() inventory.StockTransferRepository {
	return s.transferRepo
}

// ReplenishmentRepo returns the replenishment repository.
func (s *NoOpTransactionScope) ReplenishmentRepo() inventory.ReplenishmentRepository {
	return s.replenishmentRepo
}

// SaveEvents publishes the events directly when a publisher is configured.
func (s *NoOpTransactionScope) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if s.publisher == nil || len(events) == 0 {
		return nil
	}
	return s.publisher.Publish(ctx, events...)
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
