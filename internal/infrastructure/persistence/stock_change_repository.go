package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormStockChangeRepository implements StockChangeRepository using GORM
type GormStockChangeRepository struct {
	db *gorm.DB
}

// NewGormStockChangeRepository creates a new GormStockChangeRepository
func NewGormStockChangeRepository(db *gorm.DB) *GormStockChangeRepository {
	return &GormStockChangeRepository{db: db}
}

// Create appends ledger rows
func (r *GormStockChangeRepository) Create(ctx context.Context, changes ...*inventory.StockChange) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&changes).Error
}

// FindByIDForTenant finds a ledger row by ID, rejecting cross-tenant access
func (r *GormStockChangeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockChange, error) {
	var change inventory.StockChange
	if err := r.db.WithContext(ctx).First(&change, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if change.TenantID != tenantID {
		return nil, shared.ErrUnauthorized
	}
	return &change, nil
}

// FindByBatch finds all ledger rows for a batch in creation order
func (r *GormStockChangeRepository) FindByBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]*inventory.StockChange, error) {
	var changes []*inventory.StockChange
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND batch_id = ?", tenantID, batchID).
		Order("created_at ASC").
		Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

// FindAll finds ledger rows matching the filter together with the total count
func (r *GormStockChangeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter inventory.ChangeFilter) ([]*inventory.StockChange, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockChange{}).
		Where("tenant_id = ?", tenantID)

	if filter.Item != nil {
		query = query.Where("item_kind = ? AND item_id = ?", filter.Item.Kind, filter.Item.ID)
	}
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}
	if filter.Reason != nil {
		query = query.Where("reason = ?", *filter.Reason)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Filter, StockChangeSortFields, "created_at")

	var changes []*inventory.StockChange
	if err := query.Find(&changes).Error; err != nil {
		return nil, 0, err
	}
	return changes, total, nil
}

// SumChangeForBatch replays the ledger for one batch
func (r *GormStockChangeRepository) SumChangeForBatch(ctx context.Context, tenantID, batchID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockChange{}).
		Select("COALESCE(SUM(change), 0) as total").
		Where("tenant_id = ? AND batch_id = ?", tenantID, batchID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// DeleteByID removes a ledger row. Exists for exceptional corrections only.
func (r *GormStockChangeRepository) DeleteByID(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&inventory.StockChange{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStockChangeRepository implements StockChangeRepository
var _ inventory.StockChangeRepository = (*GormStockChangeRepository)(nil)
