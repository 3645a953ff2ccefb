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

// GormStockBatchRepository implements StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByID finds a stock batch by its ID
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForTenant finds a stock batch by ID, rejecting cross-tenant access
func (r *GormStockBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockBatch, error) {
	batch, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.TenantID != tenantID {
		return nil, shared.ErrUnauthorized
	}
	return batch, nil
}

// FindByItem finds all non-deleted batches for an item in creation order
func (r *GormStockBatchRepository) FindByItem(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef) ([]*inventory.StockBatch, error) {
	var batches []*inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_kind = ? AND item_id = ?", tenantID, item.Kind, item.ID).
		Where("status <> ?", inventory.BatchStatusDeleted).
		Order("created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAvailableByItem finds batches with remaining stock for an item,
// optionally narrowed to one location, in creation order
func (r *GormStockBatchRepository) FindAvailableByItem(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) ([]*inventory.StockBatch, error) {
	var batches []*inventory.StockBatch
	query := r.availableQuery(ctx, tenantID, item, location)

	if err := query.Order("created_at ASC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// SumAvailableQuantity totals the remaining quantity across available batches
func (r *GormStockBatchRepository) SumAvailableQuantity(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.availableQuery(ctx, tenantID, item, location).
		Select("COALESCE(SUM(remaining_quantity), 0) as total")

	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// FindAll finds batches matching the filter together with the total count
func (r *GormStockBatchRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter inventory.BatchFilter) ([]*inventory.StockBatch, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockBatch{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyBatchFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Filter, StockBatchSortFields, "created_at")

	var batches []*inventory.StockBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// Create inserts a new stock batch
func (r *GormStockBatchRepository) Create(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// Save creates or updates a stock batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockBatchRepository) SaveWithLock(ctx context.Context, batch *inventory.StockBatch) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.Version-1).
		Updates(map[string]interface{}{
			"quantity":           batch.Quantity,
			"remaining_quantity": batch.RemainingQuantity,
			"damaged_quantity":   batch.DamagedQuantity,
			"cost_price":         batch.CostPrice,
			"status":             batch.Status,
			"notes":              batch.Notes,
			"version":            batch.Version,
			"updated_at":         batch.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// availableQuery builds the base query for batches that can still be consumed
func (r *GormStockBatchRepository) availableQuery(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockBatch{}).
		Where("tenant_id = ? AND item_kind = ? AND item_id = ?", tenantID, item.Kind, item.ID).
		Where("status <> ? AND remaining_quantity > 0", inventory.BatchStatusDeleted)

	if location != nil {
		query = query.Where("location_type = ?", location.Type)
		if location.LocationID != nil {
			query = query.Where("location_id = ?", *location.LocationID)
		} else {
			query = query.Where("location_id IS NULL")
		}
	}
	return query
}

// applyBatchFilter applies the batch-specific filter fields without pagination
func (r *GormStockBatchRepository) applyBatchFilter(query *gorm.DB, filter inventory.BatchFilter) *gorm.DB {
	if filter.Item != nil {
		query = query.Where("item_kind = ? AND item_id = ?", filter.Item.Kind, filter.Item.ID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.LocationType != nil {
		query = query.Where("location_type = ?", *filter.LocationType)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	return query
}

// applyPagination applies whitelisted ordering and page/size limits
func applyPagination(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormStockBatchRepository implements StockBatchRepository
var _ inventory.StockBatchRepository = (*GormStockBatchRepository)(nil)
