package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormProductReader implements ProductReader using GORM
type GormProductReader struct {
	db *gorm.DB
}

// NewGormProductReader creates a new GormProductReader
func NewGormProductReader(db *gorm.DB) *GormProductReader {
	return &GormProductReader{db: db}
}

// Exists checks if a product exists within a tenant
func (r *GormProductReader) Exists(ctx context.Context, tenantID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Name returns the product's display name
func (r *GormProductReader) Name(ctx context.Context, tenantID, productID uuid.UUID) (string, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return product.Name, nil
}

// GormMaterialReader implements MaterialReader using GORM
type GormMaterialReader struct {
	db *gorm.DB
}

// NewGormMaterialReader creates a new GormMaterialReader
func NewGormMaterialReader(db *gorm.DB) *GormMaterialReader {
	return &GormMaterialReader{db: db}
}

// Exists checks if a material exists within a tenant
func (r *GormMaterialReader) Exists(ctx context.Context, tenantID, materialID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Material{}).
		Where("tenant_id = ? AND id = ?", tenantID, materialID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Name returns the material's display name
func (r *GormMaterialReader) Name(ctx context.Context, tenantID, materialID uuid.UUID) (string, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, materialID).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return material.Name, nil
}

// GormShopReader implements ShopReader using GORM
type GormShopReader struct {
	db *gorm.DB
}

// NewGormShopReader creates a new GormShopReader
func NewGormShopReader(db *gorm.DB) *GormShopReader {
	return &GormShopReader{db: db}
}

// Exists checks if a shop exists within a tenant
func (r *GormShopReader) Exists(ctx context.Context, tenantID, shopID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Shop{}).
		Where("tenant_id = ? AND id = ?", tenantID, shopID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsActive checks if a shop is active
func (r *GormShopReader) IsActive(ctx context.Context, tenantID, shopID uuid.UUID) (bool, error) {
	var shop catalog.Shop
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, shopID).
		First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, shared.ErrNotFound
		}
		return false, err
	}
	return shop.IsActive, nil
}

// Ensure the readers implement the catalog interfaces
var _ catalog.ProductReader = (*GormProductReader)(nil)
var _ catalog.MaterialReader = (*GormMaterialReader)(nil)
var _ catalog.ShopReader = (*GormShopReader)(nil)
