package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Product is a read model over the product catalog. Inventory only
// needs existence checks and display names.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// Material is a read model over raw materials
type Material struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Material) TableName() string {
	return "materials"
}

// Shop is a read model over shops
type Shop struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Shop) TableName() string {
	return "shops"
}

// ProductReader exposes product lookups to other bounded contexts
type ProductReader interface {
	Exists(ctx context.Context, tenantID, productID uuid.UUID) (bool, error)
	Name(ctx context.Context, tenantID, productID uuid.UUID) (string, error)
}

// MaterialReader exposes material lookups to other bounded contexts
type MaterialReader interface {
	Exists(ctx context.Context, tenantID, materialID uuid.UUID) (bool, error)
	Name(ctx context.Context, tenantID, materialID uuid.UUID) (string, error)
}

// ShopReader exposes shop lookups to other bounded contexts
type ShopReader interface {
	Exists(ctx context.Context, tenantID, shopID uuid.UUID) (bool, error)
	IsActive(ctx context.Context, tenantID, shopID uuid.UUID) (bool, error)
}
