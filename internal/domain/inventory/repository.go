package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// BatchFilter narrows batch queries
type BatchFilter struct {
	shared.Filter
	Item         *ItemRef
	Status       *BatchStatus
	LocationType *LocationType
	LocationID   *uuid.UUID
	SupplierID   *uuid.UUID
}

// StockBatchRepository persists stock batches.
//
// Reads that feed a consumption or adjustment must run inside the same
// transaction as the subsequent writes; SaveWithLock enforces the
// optimistic version check so concurrent writers fail instead of losing
// updates.
type StockBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)
	// FindByIDForTenant rejects cross-tenant access with UNAUTHORIZED
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockBatch, error)
	// FindByItem returns all non-deleted batches for an item in creation order
	FindByItem(ctx context.Context, tenantID uuid.UUID, item ItemRef) ([]*StockBatch, error)
	// FindAvailableByItem returns batches with remaining stock for an item,
	// optionally narrowed to one location, in creation order
	FindAvailableByItem(ctx context.Context, tenantID uuid.UUID, item ItemRef, location *Location) ([]*StockBatch, error)
	// SumAvailableQuantity totals the remaining quantity across available batches
	SumAvailableQuantity(ctx context.Context, tenantID uuid.UUID, item ItemRef, location *Location) (decimal.Decimal, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter BatchFilter) ([]*StockBatch, int64, error)
	Create(ctx context.Context, batch *StockBatch) error
	Save(ctx context.Context, batch *StockBatch) error
	// SaveWithLock saves with an optimistic version check and fails with
	// CONCURRENCY_CONFLICT when the row moved underneath the caller
	SaveWithLock(ctx context.Context, batch *StockBatch) error
}

// ChangeFilter narrows stock change queries
type ChangeFilter struct {
	shared.Filter
	Item    *ItemRef
	BatchID *uuid.UUID
	Reason  *ChangeReason
}

// StockChangeRepository persists the append-only stock ledger. Rows are
// created and queried, never updated; DeleteByID exists for exceptional
// corrections only.
type StockChangeRepository interface {
	Create(ctx context.Context, changes ...*StockChange) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockChange, error)
	FindByBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]*StockChange, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ChangeFilter) ([]*StockChange, int64, error)
	// SumChangeForBatch replays the ledger for one batch
	SumChangeForBatch(ctx context.Context, tenantID, batchID uuid.UUID) (decimal.Decimal, error)
	DeleteByID(ctx context.Context, tenantID, id uuid.UUID) error
}

// TransferFilter narrows transfer queries
type TransferFilter struct {
	shared.Filter
	TransferType *TransferType
	Status       *TransferStatus
	Item         *ItemRef
}

// StockTransferRepository persists stock transfers
type StockTransferRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockTransfer, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter TransferFilter) ([]*StockTransfer, int64, error)
	Create(ctx context.Context, transfer *StockTransfer) error
	Save(ctx context.Context, transfer *StockTransfer) error
}

// ReplenishmentFilter narrows replenishment request queries
type ReplenishmentFilter struct {
	shared.Filter
	ShopID *uuid.UUID
	Status *ReplenishmentStatus
}

// ReplenishmentRepository persists replenishment requests
type ReplenishmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ReplenishmentRequest, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ReplenishmentFilter) ([]*ReplenishmentRequest, int64, error)
	Create(ctx context.Context, request *ReplenishmentRequest) error
	Save(ctx context.Context, request *ReplenishmentRequest) error
}
