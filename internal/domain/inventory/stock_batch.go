package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// BatchStatus represents the lifecycle state of a stock batch
type BatchStatus string

const (
	// BatchStatusActive means the batch holds stock and can be consumed
	BatchStatusActive BatchStatus = "active"
	// BatchStatusDepleted means the remaining quantity has reached zero
	BatchStatusDepleted BatchStatus = "depleted"
	// BatchStatusCorrected means the lot size was rewritten by a correction
	BatchStatusCorrected BatchStatus = "corrected"
	// BatchStatusDeleted is a soft-delete marker, only valid once emptied
	BatchStatusDeleted BatchStatus = "deleted"
)

// IsValid checks if the batch status is valid
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusActive, BatchStatusDepleted, BatchStatusCorrected, BatchStatusDeleted:
		return true
	}
	return false
}

// String returns the string representation
func (s BatchStatus) String() string {
	return string(s)
}

// StockBatch is a discrete lot of inventory received at one cost price.
// It is the aggregate root of the ledger: remaining quantity only moves
// through its methods, and every movement is mirrored by a StockChange row.
//
// Invariants: 0 <= RemainingQuantity <= Quantity, DamagedQuantity >= 0,
// and the item reference is immutable after creation.
type StockBatch struct {
	shared.TenantAggregateRoot
	Item              ItemRef         `gorm:"embedded"`
	Quantity          decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	DamagedQuantity   decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	CostPrice         decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	SupplierID        *uuid.UUID      `gorm:"type:uuid;index"`
	IsOwnPurchase     bool            `gorm:"not null;default:false"`
	IsCredit          bool            `gorm:"not null;default:false"`
	Location          Location        `gorm:"embedded"`
	Status            BatchStatus     `gorm:"type:varchar(16);not null;index"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the database table name
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a new batch with the full quantity still remaining
func NewStockBatch(
	tenantID uuid.UUID,
	item ItemRef,
	quantity decimal.Decimal,
	costPrice decimal.Decimal,
	location Location,
) (*StockBatch, error) {
	if item.IsZero() || !item.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "A valid item reference is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Batch quantity must be positive")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cost price cannot be negative")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	return &StockBatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Item:                item,
		Quantity:            quantity,
		RemainingQuantity:   quantity,
		DamagedQuantity:     decimal.Zero,
		CostPrice:           costPrice,
		IsOwnPurchase:       false,
		IsCredit:            false,
		Location:            location,
		Status:              BatchStatusActive,
	}, nil
}

// WithSupplier records the supplier the batch was purchased from
func (b *StockBatch) WithSupplier(supplierID uuid.UUID, isCredit bool) *StockBatch {
	b.SupplierID = &supplierID
	b.IsOwnPurchase = false
	b.IsCredit = isCredit
	return b
}

// WithOwnPurchase marks the batch as acquired without supplier credit
func (b *StockBatch) WithOwnPurchase() *StockBatch {
	b.IsOwnPurchase = true
	b.IsCredit = false
	return b
}

// WithNotes attaches operator notes to the batch
func (b *StockBatch) WithNotes(notes string) *StockBatch {
	b.Notes = notes
	return b
}

// IsDeleted returns true if the batch was soft-deleted
func (b *StockBatch) IsDeleted() bool {
	return b.Status == BatchStatusDeleted
}

// IsAvailable returns true if the batch can still be consumed
func (b *StockBatch) IsAvailable() bool {
	return !b.IsDeleted() && b.RemainingQuantity.GreaterThan(decimal.Zero)
}

// AvailableQuantity returns the quantity that can still be consumed
func (b *StockBatch) AvailableQuantity() decimal.Decimal {
	if b.IsDeleted() {
		return decimal.Zero
	}
	return b.RemainingQuantity
}

// UsedQuantity returns how much of the original lot has been consumed
func (b *StockBatch) UsedQuantity() decimal.Decimal {
	return b.Quantity.Sub(b.RemainingQuantity)
}

// EffectiveCostPrice returns the per-unit cost currently in effect
func (b *StockBatch) EffectiveCostPrice() decimal.Decimal {
	return b.CostPrice
}

// TotalValue returns the value of the remaining stock
func (b *StockBatch) TotalValue() decimal.Decimal {
	return b.RemainingQuantity.Mul(b.CostPrice)
}

// Consume removes quantity from the batch. The full amount must be
// available; partial consumption of a single batch is never committed.
func (b *StockBatch) Consume(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Consumed quantity must be positive")
	}
	if b.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot consume from a deleted batch")
	}
	if quantity.GreaterThan(b.RemainingQuantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Batch has insufficient remaining quantity")
	}

	b.RemainingQuantity = b.RemainingQuantity.Sub(quantity)
	b.refreshStatus()
	b.IncrementVersion()
	b.UpdatedAt = time.Now()
	return nil
}

// CorrectQuantity rewrites the original lot size. The already-used amount
// is preserved: remaining becomes max(0, newTotal - used). It returns the
// signed delta applied to the remaining quantity.
func (b *StockBatch) CorrectQuantity(newTotal decimal.Decimal) (decimal.Decimal, error) {
	if newTotal.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_INPUT", "Total quantity cannot be negative")
	}
	if b.IsDeleted() {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", "Cannot correct a deleted batch")
	}

	used := b.UsedQuantity()
	newRemaining := newTotal.Sub(used)
	if newRemaining.IsNegative() {
		newRemaining = decimal.Zero
	}
	delta := newRemaining.Sub(b.RemainingQuantity)

	b.Quantity = newTotal
	b.RemainingQuantity = newRemaining
	b.Status = BatchStatusCorrected
	b.refreshStatus()
	b.IncrementVersion()
	b.UpdatedAt = time.Now()
	return delta, nil
}

// AdjustRemaining applies a signed delta to the remaining quantity. If the
// result exceeds the lot size, the lot size is raised to match so callers
// never observe remaining > total.
func (b *StockBatch) AdjustRemaining(delta decimal.Decimal) error {
	if b.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot adjust a deleted batch")
	}

	newRemaining := b.RemainingQuantity.Add(delta)
	if newRemaining.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Adjustment would make remaining quantity negative")
	}

	b.RemainingQuantity = newRemaining
	if b.RemainingQuantity.GreaterThan(b.Quantity) {
		b.Quantity = b.RemainingQuantity
	}
	b.refreshStatus()
	b.IncrementVersion()
	b.UpdatedAt = time.Now()
	return nil
}

// RecordDamage moves quantity from remaining into the damaged counter
func (b *StockBatch) RecordDamage(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Damage quantity must be positive")
	}
	if b.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot record damage on a deleted batch")
	}
	if quantity.GreaterThan(b.RemainingQuantity) {
		return shared.NewDomainError("INVALID_INPUT", "Damage quantity exceeds remaining quantity")
	}

	b.RemainingQuantity = b.RemainingQuantity.Sub(quantity)
	b.DamagedQuantity = b.DamagedQuantity.Add(quantity)
	b.refreshStatus()
	b.IncrementVersion()
	b.UpdatedAt = time.Now()
	return nil
}

// CorrectCost rewrites the per-unit cost price
func (b *StockBatch) CorrectCost(newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Cost price cannot be negative")
	}
	if b.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot correct a deleted batch")
	}

	b.CostPrice = newPrice
	b.IncrementVersion()
	b.UpdatedAt = time.Now()
	return nil
}

// MarkDeleted soft-deletes the batch. Only an emptied batch can be deleted.
func (b *StockBatch) MarkDeleted() error {
	if b.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Batch is already deleted")
	}
	if b.RemainingQuantity.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a batch with remaining stock")
	}

	b.Status = BatchStatusDeleted
	b.IncrementVersion()
	b.UpdatedAt = time.Now()
	return nil
}

// refreshStatus keeps the depleted/active flip in sync with the remaining
// quantity without touching deleted batches
func (b *StockBatch) refreshStatus() {
	if b.IsDeleted() {
		return
	}
	if b.RemainingQuantity.IsZero() {
		b.Status = BatchStatusDepleted
		return
	}
	if b.Status == BatchStatusDepleted {
		b.Status = BatchStatusActive
	}
}
