package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/retailops/backend/internal/application/inventory"
	"github.com/retailops/backend/internal/domain/inventory"
)

// StockHandler handles stock batch and consumption API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// CreateBatchRequest represents a request to create or restock a batch
type CreateBatchRequest struct {
	ItemKind      string  `json:"item_kind" binding:"required,oneof=product material"`
	ItemID        string  `json:"item_id" binding:"required,uuid"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	CostPrice     float64 `json:"cost_price" binding:"gte=0"`
	LocationType  string  `json:"location_type" binding:"required,oneof=warehouse shop production global"`
	LocationID    string  `json:"location_id" binding:"omitempty,uuid"`
	SupplierID    string  `json:"supplier_id" binding:"omitempty,uuid"`
	IsOwnPurchase bool    `json:"is_own_purchase"`
	IsCredit      bool    `json:"is_credit"`
	Notes         string  `json:"notes" binding:"max=1000"`
}

// ConsumeStockRequest represents a request to consume stock for an item
type ConsumeStockRequest struct {
	ItemKind     string  `json:"item_kind" binding:"required,oneof=product material"`
	ItemID       string  `json:"item_id" binding:"required,uuid"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	Method       string  `json:"method" binding:"omitempty,oneof=FIFO LIFO"`
	LocationType string  `json:"location_type" binding:"omitempty,oneof=warehouse shop production global"`
	LocationID   string  `json:"location_id" binding:"omitempty,uuid"`
	Reason       string  `json:"reason"`
}

// AdjustBatchRequest represents a request to adjust an existing batch
type AdjustBatchRequest struct {
	Type                   string   `json:"type" binding:"required,oneof=quantity_correction remaining_adjustment damage cost_correction combined"`
	NewTotalQuantity       *float64 `json:"new_total_quantity"`
	RemainingQuantityDelta *float64 `json:"remaining_quantity_delta"`
	DamageQuantity         *float64 `json:"damage_quantity"`
	NewCostPrice           *float64 `json:"new_cost_price"`
	Notes                  string   `json:"notes" binding:"max=1000"`
}

// batchListQuery narrows and paginates batch listings
type batchListQuery struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	ItemKind     string `form:"item_kind" binding:"omitempty,oneof=product material"`
	ItemID       string `form:"item_id" binding:"omitempty,uuid"`
	Status       string `form:"status"`
	LocationType string `form:"location_type" binding:"omitempty,oneof=warehouse shop production global"`
	LocationID   string `form:"location_id" binding:"omitempty,uuid"`
	SupplierID   string `form:"supplier_id" binding:"omitempty,uuid"`
}

// changeListQuery narrows and paginates stock change listings
type changeListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	ItemKind string `form:"item_kind" binding:"omitempty,oneof=product material"`
	ItemID   string `form:"item_id" binding:"omitempty,uuid"`
	BatchID  string `form:"batch_id" binding:"omitempty,uuid"`
	Reason   string `form:"reason"`
}

// availabilityQuery asks for the summed available quantity of an item
type availabilityQuery struct {
	ItemKind     string `form:"item_kind" binding:"required,oneof=product material"`
	ItemID       string `form:"item_id" binding:"required,uuid"`
	LocationType string `form:"location_type" binding:"omitempty,oneof=warehouse shop production global"`
	LocationID   string `form:"location_id" binding:"omitempty,uuid"`
}

// parseOptionalUUID parses a UUID string when present, returning nil for empty input
func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r CreateBatchRequest) toApplicationRequest() (inventoryapp.CreateBatchRequest, error) {
	itemID, err := uuid.Parse(r.ItemID)
	if err != nil {
		return inventoryapp.CreateBatchRequest{}, err
	}
	locationID, err := parseOptionalUUID(r.LocationID)
	if err != nil {
		return inventoryapp.CreateBatchRequest{}, err
	}
	supplierID, err := parseOptionalUUID(r.SupplierID)
	if err != nil {
		return inventoryapp.CreateBatchRequest{}, err
	}
	return inventoryapp.CreateBatchRequest{
		ItemKind:      r.ItemKind,
		ItemID:        itemID,
		Quantity:      toDecimal(r.Quantity),
		CostPrice:     toDecimal(r.CostPrice),
		LocationType:  r.LocationType,
		LocationID:    locationID,
		SupplierID:    supplierID,
		IsOwnPurchase: r.IsOwnPurchase,
		IsCredit:      r.IsCredit,
		Notes:         r.Notes,
	}, nil
}

// CreateBatch records a new stock batch (initial stock intake).
func (h *StockHandler) CreateBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toApplicationRequest()
	if err != nil {
		h.BadRequest(c, "Invalid ID format in request")
		return
	}

	batch, err := h.stockService.CreateBatch(c.Request.Context(), tenantID, userID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, batch)
}

// Restock records an additional stock batch for an existing item.
func (h *StockHandler) Restock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toApplicationRequest()
	if err != nil {
		h.BadRequest(c, "Invalid ID format in request")
		return
	}

	batch, err := h.stockService.Restock(c.Request.Context(), tenantID, userID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, batch)
}

// Consume draws down stock for an item across batches in FIFO or LIFO order.
func (h *StockHandler) Consume(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req ConsumeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	locationID, err := parseOptionalUUID(req.LocationID)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	result, err := h.stockService.Consume(c.Request.Context(), tenantID, userID, inventoryapp.ConsumeRequest{
		ItemKind:     req.ItemKind,
		ItemID:       itemID,
		Quantity:     toDecimal(req.Quantity),
		Method:       req.Method,
		LocationType: req.LocationType,
		LocationID:   locationID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AdjustBatch applies a correction, damage write-off, or repricing to a batch.
func (h *StockHandler) AdjustBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req AdjustBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adj := inventory.BatchAdjustment{
		Type:  inventory.AdjustmentType(req.Type),
		Notes: req.Notes,
	}
	if req.NewTotalQuantity != nil {
		adj.NewTotalQuantity = toDecimalPtr(*req.NewTotalQuantity)
	}
	if req.RemainingQuantityDelta != nil {
		adj.RemainingQuantityDelta = toDecimalPtr(*req.RemainingQuantityDelta)
	}
	if req.DamageQuantity != nil {
		adj.DamageQuantity = toDecimalPtr(*req.DamageQuantity)
	}
	if req.NewCostPrice != nil {
		adj.NewCostPrice = toDecimalPtr(*req.NewCostPrice)
	}

	batch, err := h.stockService.AdjustBatch(c.Request.Context(), tenantID, userID, batchID, adj)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// DeleteBatch soft-deletes a batch and reverses its remaining quantity.
func (h *StockHandler) DeleteBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	if err := h.stockService.DeleteBatch(c.Request.Context(), tenantID, userID, batchID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetBatch retrieves a batch by its ID.
func (h *StockHandler) GetBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	batch, err := h.stockService.GetBatch(c.Request.Context(), tenantID, batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// ListBatches retrieves a paginated, filtered list of batches.
func (h *StockHandler) ListBatches(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query batchListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := parseOptionalUUID(query.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	locationID, err := parseOptionalUUID(query.LocationID)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}
	supplierID, err := parseOptionalUUID(query.SupplierID)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	filter := inventoryapp.BatchListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		OrderBy:      query.OrderBy,
		OrderDir:     query.OrderDir,
		ItemKind:     query.ItemKind,
		ItemID:       itemID,
		Status:       query.Status,
		LocationType: query.LocationType,
		LocationID:   locationID,
		SupplierID:   supplierID,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	batches, total, err := h.stockService.ListBatches(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, batches, total, filter.Page, filter.PageSize)
}

// GetAvailability returns the summed available quantity for an item.
func (h *StockHandler) GetAvailability(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query availabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := uuid.Parse(query.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	locationID, err := parseOptionalUUID(query.LocationID)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	availability, err := h.stockService.GetAvailability(c.Request.Context(), tenantID, inventoryapp.AvailabilityQuery{
		ItemKind:     query.ItemKind,
		ItemID:       itemID,
		LocationType: query.LocationType,
		LocationID:   locationID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, availability)
}

// ListChanges retrieves a paginated view of the append-only stock change log.
func (h *StockHandler) ListChanges(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query changeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := parseOptionalUUID(query.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	batchID, err := parseOptionalUUID(query.BatchID)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	filter := inventoryapp.ChangeListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		ItemKind: query.ItemKind,
		ItemID:   itemID,
		BatchID:  batchID,
		Reason:   query.Reason,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	changes, total, err := h.stockService.ListChanges(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, changes, total, filter.Page, filter.PageSize)
}
