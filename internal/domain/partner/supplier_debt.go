package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// DebtEntryKind classifies a supplier debt ledger row
type DebtEntryKind string

const (
	// DebtEntryKindDebt increases the outstanding debt
	DebtEntryKindDebt DebtEntryKind = "debt"
	// DebtEntryKindRefund decreases the outstanding debt
	DebtEntryKindRefund DebtEntryKind = "refund"
)

// SupplierDebtEntry is one row of the supplier debt ledger. Debt rows
// carry a positive amount, refund rows a negative one; the outstanding
// debt of a supplier is the sum of its rows, never below zero.
type SupplierDebtEntry struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        DebtEntryKind   `gorm:"type:varchar(16);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Description string          `gorm:"type:text"`
	BatchID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the database table name
func (SupplierDebtEntry) TableName() string {
	return "supplier_debt_entries"
}

// NewDebtEntry creates a row that increases the supplier's outstanding debt
func NewDebtEntry(tenantID, supplierID uuid.UUID, amount decimal.Decimal, description string, batchID *uuid.UUID) (*SupplierDebtEntry, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier ID is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Debt amount must be positive")
	}

	return &SupplierDebtEntry{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		SupplierID:  supplierID,
		Kind:        DebtEntryKindDebt,
		Amount:      amount,
		Description: description,
		BatchID:     batchID,
	}, nil
}

// NewRefundEntry creates a row that decreases the supplier's outstanding
// debt. The stored amount is negative.
func NewRefundEntry(tenantID, supplierID uuid.UUID, amount decimal.Decimal, description string) (*SupplierDebtEntry, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier ID is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refund amount must be positive")
	}

	return &SupplierDebtEntry{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		SupplierID:  supplierID,
		Kind:        DebtEntryKindRefund,
		Amount:      amount.Neg(),
		Description: description,
	}, nil
}

// SupplierDebt is the computed debt position of one supplier
type SupplierDebt struct {
	SupplierID  uuid.UUID
	Outstanding decimal.Decimal
	Entries     []*SupplierDebtEntry
}

// OutstandingFromEntries sums ledger rows into the outstanding debt,
// clamped at zero
func OutstandingFromEntries(entries []*SupplierDebtEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// SupplierDebtRepository persists the supplier debt ledger
type SupplierDebtRepository interface {
	Create(ctx context.Context, entry *SupplierDebtEntry) error
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*SupplierDebtEntry, error)
	// Outstanding sums the supplier's rows, clamped at zero
	Outstanding(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error)
	DeleteByID(ctx context.Context, tenantID, supplierID, entryID uuid.UUID) error
}
