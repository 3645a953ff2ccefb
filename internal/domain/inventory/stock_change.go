package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// ChangeReason classifies why a stock change was written
type ChangeReason string

const (
	ChangeReasonCreation           ChangeReason = "creation"
	ChangeReasonRestock            ChangeReason = "restock"
	ChangeReasonSale               ChangeReason = "sale"
	ChangeReasonManualAdjustment   ChangeReason = "manual_adjustment"
	ChangeReasonDamage             ChangeReason = "damage"
	ChangeReasonCostCorrection     ChangeReason = "cost_correction"
	ChangeReasonQuantityCorrection ChangeReason = "quantity_correction"
	ChangeReasonTransfer           ChangeReason = "transfer"
	ChangeReasonBatchDeletion      ChangeReason = "batch_deletion"
	ChangeReasonReplenishment      ChangeReason = "replenishment"
)

// IsValid checks if the change reason is valid
func (r ChangeReason) IsValid() bool {
	switch r {
	case ChangeReasonCreation, ChangeReasonRestock, ChangeReasonSale,
		ChangeReasonManualAdjustment, ChangeReasonDamage, ChangeReasonCostCorrection,
		ChangeReasonQuantityCorrection, ChangeReasonTransfer, ChangeReasonBatchDeletion,
		ChangeReasonReplenishment:
		return true
	}
	return false
}

// String returns the string representation
func (r ChangeReason) String() string {
	return string(r)
}

// StockChange is one immutable row of the append-only stock ledger. A row
// records a signed delta to a batch's remaining quantity (zero for
// cost-only corrections) together with the cost and provenance in effect
// at the time, so current batch state can be reconstructed by replay.
type StockChange struct {
	shared.BaseEntity
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Item          ItemRef          `gorm:"embedded"`
	Change        decimal.Decimal  `gorm:"type:numeric(20,4);not null"`
	Reason        ChangeReason     `gorm:"type:varchar(32);not null;index"`
	BatchID       *uuid.UUID       `gorm:"type:uuid;index"`
	CostPrice     *decimal.Decimal `gorm:"type:numeric(20,4)"`
	SupplierID    *uuid.UUID       `gorm:"type:uuid"`
	IsOwnPurchase *bool
	IsCredit      *bool
	TransferID    *uuid.UUID `gorm:"type:uuid;index"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null"`
}

// TableName returns the database table name
func (StockChange) TableName() string {
	return "stock_changes"
}

// NewStockChange creates a new ledger row
func NewStockChange(
	tenantID uuid.UUID,
	item ItemRef,
	change decimal.Decimal,
	reason ChangeReason,
	userID uuid.UUID,
) (*StockChange, error) {
	if item.IsZero() || !item.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "A valid item reference is required")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown change reason: "+string(reason))
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID is required")
	}

	return &StockChange{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Item:       item,
		Change:     change,
		Reason:     reason,
		UserID:     userID,
	}, nil
}

// NewBatchChange creates a ledger row for a specific batch, snapshotting
// the batch's cost price and supplier provenance
func NewBatchChange(
	batch *StockBatch,
	change decimal.Decimal,
	reason ChangeReason,
	userID uuid.UUID,
) (*StockChange, error) {
	sc, err := NewStockChange(batch.TenantID, batch.Item, change, reason, userID)
	if err != nil {
		return nil, err
	}
	batchID := batch.ID
	cost := batch.CostPrice
	own := batch.IsOwnPurchase
	credit := batch.IsCredit

	sc.BatchID = &batchID
	sc.CostPrice = &cost
	sc.SupplierID = batch.SupplierID
	sc.IsOwnPurchase = &own
	sc.IsCredit = &credit
	return sc, nil
}

// WithTransfer links the row to a transfer
func (c *StockChange) WithTransfer(transferID uuid.UUID) *StockChange {
	c.TransferID = &transferID
	return c
}

// WithCostPrice records the price in effect at the time of the change
func (c *StockChange) WithCostPrice(price decimal.Decimal) *StockChange {
	c.CostPrice = &price
	return c
}

// WithBatch links the row to a batch
func (c *StockChange) WithBatch(batchID uuid.UUID) *StockChange {
	c.BatchID = &batchID
	return c
}

// IsIncrease returns true if the row adds remaining quantity
func (c *StockChange) IsIncrease() bool {
	return c.Change.GreaterThan(decimal.Zero)
}
