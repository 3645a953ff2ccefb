package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// TransferType names the source/destination pair of a stock movement
type TransferType string

const (
	TransferTypeWarehouseToShop      TransferType = "warehouse_to_shop"
	TransferTypeWarehouseToWarehouse TransferType = "warehouse_to_warehouse"
	TransferTypeShopToShop           TransferType = "shop_to_shop"
	TransferTypeShopToWarehouse      TransferType = "shop_to_warehouse"
)

// IsValid checks if the transfer type is valid
func (t TransferType) IsValid() bool {
	switch t {
	case TransferTypeWarehouseToShop, TransferTypeWarehouseToWarehouse,
		TransferTypeShopToShop, TransferTypeShopToWarehouse:
		return true
	}
	return false
}

// String returns the string representation
func (t TransferType) String() string {
	return string(t)
}

// TransferStatus represents the lifecycle state of a transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// TransferEndpoints carries the four optional location ids of a transfer
// request; exactly the pair required by the transfer type must be set.
type TransferEndpoints struct {
	FromWarehouseID *uuid.UUID
	FromShopID      *uuid.UUID
	ToWarehouseID   *uuid.UUID
	ToShopID        *uuid.UUID
}

// Validate checks that the endpoints match the transfer type exactly
func (t TransferType) Validate(e TransferEndpoints) error {
	var fromOK, toOK bool
	var extras bool

	switch t {
	case TransferTypeWarehouseToShop:
		fromOK, toOK = e.FromWarehouseID != nil, e.ToShopID != nil
		extras = e.FromShopID != nil || e.ToWarehouseID != nil
	case TransferTypeWarehouseToWarehouse:
		fromOK, toOK = e.FromWarehouseID != nil, e.ToWarehouseID != nil
		extras = e.FromShopID != nil || e.ToShopID != nil
	case TransferTypeShopToShop:
		fromOK, toOK = e.FromShopID != nil, e.ToShopID != nil
		extras = e.FromWarehouseID != nil || e.ToWarehouseID != nil
	case TransferTypeShopToWarehouse:
		fromOK, toOK = e.FromShopID != nil, e.ToWarehouseID != nil
		extras = e.FromWarehouseID != nil || e.ToShopID != nil
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown transfer type: "+string(t))
	}

	if !fromOK || !toOK || extras {
		return shared.NewDomainError("INVALID_INPUT",
			"Transfer of type "+string(t)+" requires exactly its source/destination pair")
	}
	return nil
}

// Source resolves the source location of the transfer
func (t TransferType) Source(e TransferEndpoints) Location {
	switch t {
	case TransferTypeWarehouseToShop, TransferTypeWarehouseToWarehouse:
		return WarehouseLocation(*e.FromWarehouseID)
	default:
		return ShopLocation(*e.FromShopID)
	}
}

// Destination resolves the destination location of the transfer
func (t TransferType) Destination(e TransferEndpoints) Location {
	switch t {
	case TransferTypeWarehouseToWarehouse, TransferTypeShopToWarehouse:
		return WarehouseLocation(*e.ToWarehouseID)
	default:
		return ShopLocation(*e.ToShopID)
	}
}

// StockTransfer is one movement of quantity between two locations. The
// quantity removed from source batches always equals the quantity added
// to destination batches; the record flips to completed only inside the
// commit that wrote both sides.
type StockTransfer struct {
	shared.TenantAggregateRoot
	TransferType    TransferType    `gorm:"type:varchar(32);not null;index"`
	Item            ItemRef         `gorm:"embedded"`
	Quantity        decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	FromWarehouseID *uuid.UUID      `gorm:"type:uuid;index"`
	FromShopID      *uuid.UUID      `gorm:"type:uuid;index"`
	ToWarehouseID   *uuid.UUID      `gorm:"type:uuid;index"`
	ToShopID        *uuid.UUID      `gorm:"type:uuid;index"`
	BatchIDs        []uuid.UUID     `gorm:"type:jsonb;serializer:json"`
	Status          TransferStatus  `gorm:"type:varchar(16);not null;index"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the database table name
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// NewStockTransfer creates a pending transfer after validating the
// endpoint pair against the transfer type
func NewStockTransfer(
	tenantID uuid.UUID,
	transferType TransferType,
	item ItemRef,
	quantity decimal.Decimal,
	endpoints TransferEndpoints,
	createdBy uuid.UUID,
	notes string,
) (*StockTransfer, error) {
	if item.IsZero() || !item.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "A valid item reference is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transfer quantity must be positive")
	}
	if err := transferType.Validate(endpoints); err != nil {
		return nil, err
	}

	return &StockTransfer{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		TransferType:        transferType,
		Item:                item,
		Quantity:            quantity,
		FromWarehouseID:     endpoints.FromWarehouseID,
		FromShopID:          endpoints.FromShopID,
		ToWarehouseID:       endpoints.ToWarehouseID,
		ToShopID:            endpoints.ToShopID,
		BatchIDs:            make([]uuid.UUID, 0),
		Status:              TransferStatusPending,
		Notes:               notes,
	}, nil
}

// Endpoints returns the transfer's location ids
func (t *StockTransfer) Endpoints() TransferEndpoints {
	return TransferEndpoints{
		FromWarehouseID: t.FromWarehouseID,
		FromShopID:      t.FromShopID,
		ToWarehouseID:   t.ToWarehouseID,
		ToShopID:        t.ToShopID,
	}
}

// SourceLocation resolves the transfer's source location
func (t *StockTransfer) SourceLocation() Location {
	return t.TransferType.Source(t.Endpoints())
}

// DestinationLocation resolves the transfer's destination location
func (t *StockTransfer) DestinationLocation() Location {
	return t.TransferType.Destination(t.Endpoints())
}

// Complete records the destination batches and flips the transfer to
// completed, raising a TransferCompleted event
func (t *StockTransfer) Complete(destinationBatchIDs []uuid.UUID) error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending transfer can be completed")
	}
	if len(destinationBatchIDs) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "A completed transfer must reference destination batches")
	}

	t.BatchIDs = destinationBatchIDs
	t.Status = TransferStatusCompleted
	t.IncrementVersion()
	t.UpdatedAt = time.Now()

	t.AddDomainEvent(NewTransferCompletedEvent(t))
	return nil
}

// Cancel marks a pending transfer as cancelled
func (t *StockTransfer) Cancel() error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending transfer can be cancelled")
	}
	t.Status = TransferStatusCancelled
	t.IncrementVersion()
	t.UpdatedAt = time.Now()
	return nil
}

// IsCompleted returns true if both sides of the transfer have committed
func (t *StockTransfer) IsCompleted() bool {
	return t.Status == TransferStatusCompleted
}
