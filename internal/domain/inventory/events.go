package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// Event types raised by the inventory ledger
const (
	EventTypeTransferCompleted       = "inventory.transfer_completed"
	EventTypeReplenishmentRequested  = "inventory.replenishment_requested"
	EventTypeReplenishmentRejected   = "inventory.replenishment_rejected"
	EventTypeReplenishmentFulfilled  = "inventory.replenishment_fulfilled"
	EventTypeDebtAdjustmentRequested = "inventory.debt_adjustment_requested"
	EventTypeFinanceEntryRequested   = "inventory.finance_entry_requested"
)

// TransferCompletedEvent is raised when both sides of a transfer commit
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferType TransferType    `json:"transfer_type"`
	ItemKind     ItemKind        `json:"item_kind"`
	ItemID       uuid.UUID       `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	BatchIDs     []uuid.UUID     `json:"batch_ids"`
}

// NewTransferCompletedEvent creates a TransferCompletedEvent
func NewTransferCompletedEvent(t *StockTransfer) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCompleted, "StockTransfer", t.ID, t.TenantID),
		TransferType:    t.TransferType,
		ItemKind:        t.Item.Kind,
		ItemID:          t.Item.ID,
		Quantity:        t.Quantity,
		BatchIDs:        t.BatchIDs,
	}
}

// ReplenishmentRequestedEvent is raised when a shop asks for stock
type ReplenishmentRequestedEvent struct {
	shared.BaseDomainEvent
	ShopID      uuid.UUID       `json:"shop_id"`
	ItemKind    ItemKind        `json:"item_kind"`
	ItemID      uuid.UUID       `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	RequestedBy uuid.UUID       `json:"requested_by"`
}

// NewReplenishmentRequestedEvent creates a ReplenishmentRequestedEvent
func NewReplenishmentRequestedEvent(r *ReplenishmentRequest) *ReplenishmentRequestedEvent {
	return &ReplenishmentRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReplenishmentRequested, "ReplenishmentRequest", r.ID, r.TenantID),
		ShopID:          r.ShopID,
		ItemKind:        r.Item.Kind,
		ItemID:          r.Item.ID,
		Quantity:        r.Quantity,
		RequestedBy:     r.RequestedBy,
	}
}

// ReplenishmentRejectedEvent is raised when a request is rejected
type ReplenishmentRejectedEvent struct {
	shared.BaseDomainEvent
	ShopID uuid.UUID `json:"shop_id"`
	Reason string    `json:"reason"`
}

// NewReplenishmentRejectedEvent creates a ReplenishmentRejectedEvent
func NewReplenishmentRejectedEvent(r *ReplenishmentRequest) *ReplenishmentRejectedEvent {
	return &ReplenishmentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReplenishmentRejected, "ReplenishmentRequest", r.ID, r.TenantID),
		ShopID:          r.ShopID,
		Reason:          r.RejectedReason,
	}
}

// ReplenishmentFulfilledEvent is raised when a completed transfer is
// linked to an approved request
type ReplenishmentFulfilledEvent struct {
	shared.BaseDomainEvent
	ShopID     uuid.UUID `json:"shop_id"`
	TransferID uuid.UUID `json:"transfer_id"`
}

// NewReplenishmentFulfilledEvent creates a ReplenishmentFulfilledEvent
func NewReplenishmentFulfilledEvent(r *ReplenishmentRequest) *ReplenishmentFulfilledEvent {
	ev := &ReplenishmentFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReplenishmentFulfilled, "ReplenishmentRequest", r.ID, r.TenantID),
		ShopID:          r.ShopID,
	}
	if r.TransferID != nil {
		ev.TransferID = *r.TransferID
	}
	return ev
}

// DebtAdjustmentRequestedEvent asks the supplier debt ledger to record a
// debt or refund after a stock mutation committed. A positive amount is
// new debt; a negative amount is a refund capped at the outstanding debt.
type DebtAdjustmentRequestedEvent struct {
	shared.BaseDomainEvent
	SupplierID  uuid.UUID       `json:"supplier_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// NewDebtAdjustmentRequestedEvent creates a DebtAdjustmentRequestedEvent
func NewDebtAdjustmentRequestedEvent(
	tenantID uuid.UUID,
	supplierID uuid.UUID,
	batchID uuid.UUID,
	amount decimal.Decimal,
	description string,
) *DebtAdjustmentRequestedEvent {
	return &DebtAdjustmentRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtAdjustmentRequested, "StockBatch", batchID, tenantID),
		SupplierID:      supplierID,
		BatchID:         batchID,
		Amount:          amount,
		Description:     description,
	}
}

// FinanceEntryRequestedEvent asks the finance ledger to record an expense
// for a material restock with a known cost price
type FinanceEntryRequestedEvent struct {
	shared.BaseDomainEvent
	BatchID     uuid.UUID       `json:"batch_id"`
	ItemKind    ItemKind        `json:"item_kind"`
	ItemID      uuid.UUID       `json:"item_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// NewFinanceEntryRequestedEvent creates a FinanceEntryRequestedEvent
func NewFinanceEntryRequestedEvent(batch *StockBatch, amount decimal.Decimal, description string) *FinanceEntryRequestedEvent {
	return &FinanceEntryRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinanceEntryRequested, "StockBatch", batch.ID, batch.TenantID),
		BatchID:         batch.ID,
		ItemKind:        batch.Item.Kind,
		ItemID:          batch.Item.ID,
		Amount:          amount,
		Description:     description,
	}
}
