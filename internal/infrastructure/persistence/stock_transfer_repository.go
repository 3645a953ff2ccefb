package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormStockTransferRepository implements StockTransferRepository using GORM
type GormStockTransferRepository struct {
	db *gorm.DB
}

// NewGormStockTransferRepository creates a new GormStockTransferRepository
func NewGormStockTransferRepository(db *gorm.DB) *GormStockTransferRepository {
	return &GormStockTransferRepository{db: db}
}

// FindByIDForTenant finds a transfer by ID, rejecting cross-tenant access
func (r *GormStockTransferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if transfer.TenantID != tenantID {
		return nil, shared.ErrUnauthorized
	}
	return &transfer, nil
}

// FindAll finds transfers matching the filter together with the total count
func (r *GormStockTransferRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter inventory.TransferFilter) ([]*inventory.StockTransfer, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockTransfer{}).
		Where("tenant_id = ?", tenantID)

	if filter.TransferType != nil {
		query = query.Where("transfer_type = ?", *filter.TransferType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Item != nil {
		query = query.Where("item_kind = ? AND item_id = ?", filter.Item.Kind, filter.Item.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Filter, StockTransferSortFields, "created_at")

	var transfers []*inventory.StockTransfer
	if err := query.Find(&transfers).Error; err != nil {
		return nil, 0, err
	}
	return transfers, total, nil
}

// Create inserts a new transfer
func (r *GormStockTransferRepository) Create(ctx context.Context, transfer *inventory.StockTransfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// Save creates or updates a transfer
func (r *GormStockTransferRepository) Save(ctx context.Context, transfer *inventory.StockTransfer) error {
	return r.db.WithContext(ctx).Save(transfer).Error
}

// Ensure GormStockTransferRepository implements StockTransferRepository
var _ inventory.StockTransferRepository = (*GormStockTransferRepository)(nil)
