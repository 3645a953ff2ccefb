package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormSupplierDebtRepository implements SupplierDebtRepository using GORM
type GormSupplierDebtRepository struct {
	db *gorm.DB
}

// NewGormSupplierDebtRepository creates a new GormSupplierDebtRepository
func NewGormSupplierDebtRepository(db *gorm.DB) *GormSupplierDebtRepository {
	return &GormSupplierDebtRepository{db: db}
}

// Create appends a debt ledger row
func (r *GormSupplierDebtRepository) Create(ctx context.Context, entry *partner.SupplierDebtEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindBySupplier finds all ledger rows for a supplier in creation order
func (r *GormSupplierDebtRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*partner.SupplierDebtEntry, error) {
	var entries []*partner.SupplierDebtEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Outstanding sums the supplier's rows, clamped at zero
func (r *GormSupplierDebtRepository) Outstanding(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&partner.SupplierDebtEntry{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	if result.Total.IsNegative() {
		return decimal.Zero, nil
	}
	return result.Total, nil
}

// DeleteByID removes a ledger row
func (r *GormSupplierDebtRepository) DeleteByID(ctx context.Context, tenantID, supplierID, entryID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&partner.SupplierDebtEntry{}, "tenant_id = ? AND supplier_id = ? AND id = ?", tenantID, supplierID, entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSupplierDebtRepository implements SupplierDebtRepository
var _ partner.SupplierDebtRepository = (*GormSupplierDebtRepository)(nil)
