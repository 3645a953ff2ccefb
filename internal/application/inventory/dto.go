package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/inventory"
)

// CreateBatchRequest is the input for creating or restocking a batch
type CreateBatchRequest struct {
	ItemKind      string
	ItemID        uuid.UUID
	Quantity      decimal.Decimal
	CostPrice     decimal.Decimal
	LocationType  string
	LocationID    *uuid.UUID
	SupplierID    *uuid.UUID
	IsOwnPurchase bool
	IsCredit      bool
	Notes         string
}

// ConsumeRequest is the input for consuming stock from an item's batches
type ConsumeRequest struct {
	ItemKind     string
	ItemID       uuid.UUID
	Quantity     decimal.Decimal
	Method       string // FIFO (default) or LIFO
	LocationType string // optional location filter
	LocationID   *uuid.UUID
	Reason       string // defaults to sale
}

// TransferRequest is the input for moving stock between locations
type TransferRequest struct {
	TransferType    string
	ItemKind        string
	ItemID          uuid.UUID
	Quantity        decimal.Decimal
	FromWarehouseID *uuid.UUID
	FromShopID      *uuid.UUID
	ToWarehouseID   *uuid.UUID
	ToShopID        *uuid.UUID
	Method          string // FIFO (default) or LIFO
	Notes           string
}

// CreateReplenishmentRequest is the input for a shop's stock request
type CreateReplenishmentRequest struct {
	ShopID   uuid.UUID
	ItemKind string
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// AvailabilityQuery asks for the summed available quantity of an item
type AvailabilityQuery struct {
	ItemKind     string
	ItemID       uuid.UUID
	LocationType string // optional location filter
	LocationID   *uuid.UUID
}

// BatchListFilter narrows and paginates batch listings
type BatchListFilter struct {
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
	ItemKind     string
	ItemID       *uuid.UUID
	Status       string
	LocationType string
	LocationID   *uuid.UUID
	SupplierID   *uuid.UUID
}

// ChangeListFilter narrows and paginates stock change listings
type ChangeListFilter struct {
	Page     int
	PageSize int
	ItemKind string
	ItemID   *uuid.UUID
	BatchID  *uuid.UUID
	Reason   string
}

// TransferListFilter narrows and paginates transfer listings
type TransferListFilter struct {
	Page         int
	PageSize     int
	TransferType string
	Status       string
	ItemKind     string
	ItemID       *uuid.UUID
}

// ReplenishmentListFilter narrows and paginates replenishment listings
type ReplenishmentListFilter struct {
	Page     int
	PageSize int
	ShopID   *uuid.UUID
	Status   string
}

// BatchResponse is the API view of a stock batch
type BatchResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemKind          string          `json:"item_kind"`
	ItemID            uuid.UUID       `json:"item_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	DamagedQuantity   decimal.Decimal `json:"damaged_quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	IsOwnPurchase     bool            `json:"is_own_purchase"`
	IsCredit          bool            `json:"is_credit"`
	LocationType      string          `json:"location_type"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToBatchResponse maps a batch to its API view
func ToBatchResponse(b *inventory.StockBatch) BatchResponse {
	return BatchResponse{
		ID:                b.ID,
		ItemKind:          b.Item.Kind.String(),
		ItemID:            b.Item.ID,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		DamagedQuantity:   b.DamagedQuantity,
		CostPrice:         b.CostPrice,
		SupplierID:        b.SupplierID,
		IsOwnPurchase:     b.IsOwnPurchase,
		IsCredit:          b.IsCredit,
		LocationType:      b.Location.Type.String(),
		LocationID:        b.Location.LocationID,
		Status:            b.Status.String(),
		Notes:             b.Notes,
		Version:           b.Version,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// ToBatchResponses maps a batch slice to API views
func ToBatchResponses(batches []*inventory.StockBatch) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		responses = append(responses, ToBatchResponse(b))
	}
	return responses
}

// StockChangeResponse is the API view of a ledger row
type StockChangeResponse struct {
	ID            uuid.UUID        `json:"id"`
	ItemKind      string           `json:"item_kind"`
	ItemID        uuid.UUID        `json:"item_id"`
	Change        decimal.Decimal  `json:"change"`
	Reason        string           `json:"reason"`
	BatchID       *uuid.UUID       `json:"batch_id,omitempty"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	SupplierID    *uuid.UUID       `json:"supplier_id,omitempty"`
	IsOwnPurchase *bool            `json:"is_own_purchase,omitempty"`
	IsCredit      *bool            `json:"is_credit,omitempty"`
	TransferID    *uuid.UUID       `json:"transfer_id,omitempty"`
	UserID        uuid.UUID        `json:"user_id"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ToStockChangeResponse maps a ledger row to its API view
func ToStockChangeResponse(c *inventory.StockChange) StockChangeResponse {
	return StockChangeResponse{
		ID:            c.ID,
		ItemKind:      c.Item.Kind.String(),
		ItemID:        c.Item.ID,
		Change:        c.Change,
		Reason:        c.Reason.String(),
		BatchID:       c.BatchID,
		CostPrice:     c.CostPrice,
		SupplierID:    c.SupplierID,
		IsOwnPurchase: c.IsOwnPurchase,
		IsCredit:      c.IsCredit,
		TransferID:    c.TransferID,
		UserID:        c.UserID,
		CreatedAt:     c.CreatedAt,
	}
}

// ToStockChangeResponses maps a ledger row slice to API views
func ToStockChangeResponses(changes []*inventory.StockChange) []StockChangeResponse {
	responses := make([]StockChangeResponse, 0, len(changes))
	for _, c := range changes {
		responses = append(responses, ToStockChangeResponse(c))
	}
	return responses
}

// BatchConsumptionResponse describes one batch's share of a consumption
type BatchConsumptionResponse struct {
	BatchID          uuid.UUID       `json:"batch_id"`
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	RemainingInBatch decimal.Decimal `json:"remaining_in_batch"`
	Depleted         bool            `json:"depleted"`
}

// ConsumptionResponse is the API view of a completed consumption
type ConsumptionResponse struct {
	Consumptions     []BatchConsumptionResponse `json:"consumptions"`
	TotalConsumed    decimal.Decimal            `json:"total_consumed"`
	TotalCost        decimal.Decimal            `json:"total_cost"`
	AverageCostPrice decimal.Decimal            `json:"average_cost_price"`
	PrimaryBatchID   uuid.UUID                  `json:"primary_batch_id"`
}

// ToConsumptionResponse maps a consumption plan to its API view
func ToConsumptionResponse(r *inventory.ConsumptionResult) ConsumptionResponse {
	consumptions := make([]BatchConsumptionResponse, 0, len(r.Consumptions))
	for _, c := range r.Consumptions {
		consumptions = append(consumptions, BatchConsumptionResponse{
			BatchID:          c.BatchID,
			ConsumedQuantity: c.ConsumedQuantity,
			CostPrice:        c.CostPrice,
			TotalCost:        c.TotalCost,
			RemainingInBatch: c.RemainingInBatch,
			Depleted:         c.Depleted,
		})
	}
	return ConsumptionResponse{
		Consumptions:     consumptions,
		TotalConsumed:    r.TotalConsumed,
		TotalCost:        r.TotalCost,
		AverageCostPrice: r.AverageCostPrice,
		PrimaryBatchID:   r.PrimaryBatchID,
	}
}

// TransferResponse is the API view of a stock transfer
type TransferResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransferType    string          `json:"transfer_type"`
	ItemKind        string          `json:"item_kind"`
	ItemID          uuid.UUID       `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	FromWarehouseID *uuid.UUID      `json:"from_warehouse_id,omitempty"`
	FromShopID      *uuid.UUID      `json:"from_shop_id,omitempty"`
	ToWarehouseID   *uuid.UUID      `json:"to_warehouse_id,omitempty"`
	ToShopID        *uuid.UUID      `json:"to_shop_id,omitempty"`
	BatchIDs        []uuid.UUID     `json:"batch_ids"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToTransferResponse maps a transfer to its API view
func ToTransferResponse(t *inventory.StockTransfer) TransferResponse {
	return TransferResponse{
		ID:              t.ID,
		TransferType:    t.TransferType.String(),
		ItemKind:        t.Item.Kind.String(),
		ItemID:          t.Item.ID,
		Quantity:        t.Quantity,
		FromWarehouseID: t.FromWarehouseID,
		FromShopID:      t.FromShopID,
		ToWarehouseID:   t.ToWarehouseID,
		ToShopID:        t.ToShopID,
		BatchIDs:        t.BatchIDs,
		Status:          string(t.Status),
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransferResponses maps a transfer slice to API views
func ToTransferResponses(transfers []*inventory.StockTransfer) []TransferResponse {
	responses := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		responses = append(responses, ToTransferResponse(t))
	}
	return responses
}

// ReplenishmentResponse is the API view of a replenishment request
type ReplenishmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	ShopID         uuid.UUID       `json:"shop_id"`
	ItemKind       string          `json:"item_kind"`
	ItemID         uuid.UUID       `json:"item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	RequestedBy    uuid.UUID       `json:"requested_by"`
	Status         string          `json:"status"`
	TransferID     *uuid.UUID      `json:"transfer_id,omitempty"`
	RejectedReason string          `json:"rejected_reason,omitempty"`
	ReviewedBy     *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToReplenishmentResponse maps a replenishment request to its API view
func ToReplenishmentResponse(r *inventory.ReplenishmentRequest) ReplenishmentResponse {
	return ReplenishmentResponse{
		ID:             r.ID,
		ShopID:         r.ShopID,
		ItemKind:       r.Item.Kind.String(),
		ItemID:         r.Item.ID,
		Quantity:       r.Quantity,
		RequestedBy:    r.RequestedBy,
		Status:         string(r.Status),
		TransferID:     r.TransferID,
		RejectedReason: r.RejectedReason,
		ReviewedBy:     r.ReviewedBy,
		ReviewedAt:     r.ReviewedAt,
		CreatedAt:      r.CreatedAt,
	}
}

// ToReplenishmentResponses maps a request slice to API views
func ToReplenishmentResponses(requests []*inventory.ReplenishmentRequest) []ReplenishmentResponse {
	responses := make([]ReplenishmentResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, ToReplenishmentResponse(r))
	}
	return responses
}

// AvailabilityResponse is the summed available quantity for an item
type AvailabilityResponse struct {
	ItemKind          string          `json:"item_kind"`
	ItemID            uuid.UUID       `json:"item_id"`
	LocationType      string          `json:"location_type,omitempty"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	FromCache         bool            `json:"-"`
}
