package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormReplenishmentRepository implements ReplenishmentRepository using GORM
type GormReplenishmentRepository struct {
	db *gorm.DB
}

// NewGormReplenishmentRepository creates a new GormReplenishmentRepository
func NewGormReplenishmentRepository(db *gorm.DB) *GormReplenishmentRepository {
	return &GormReplenishmentRepository{db: db}
}

// FindByIDForTenant finds a replenishment request by ID, rejecting
// cross-tenant access
func (r *GormReplenishmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.ReplenishmentRequest, error) {
	var request inventory.ReplenishmentRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if request.TenantID != tenantID {
		return nil, shared.ErrUnauthorized
	}
	return &request, nil
}

// FindAll finds replenishment requests matching the filter together with
// the total count
func (r *GormReplenishmentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter inventory.ReplenishmentFilter) ([]*inventory.ReplenishmentRequest, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.ReplenishmentRequest{}).
		Where("tenant_id = ?", tenantID)

	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Filter, ReplenishmentSortFields, "created_at")

	var requests []*inventory.ReplenishmentRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Create inserts a new replenishment request
func (r *GormReplenishmentRepository) Create(ctx context.Context, request *inventory.ReplenishmentRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// Save creates or updates a replenishment request
func (r *GormReplenishmentRepository) Save(ctx context.Context, request *inventory.ReplenishmentRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Ensure GormReplenishmentRepository implements ReplenishmentRepository
var _ inventory.ReplenishmentRepository = (*GormReplenishmentRepository)(nil)
