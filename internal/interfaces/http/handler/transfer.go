package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/retailops/backend/internal/application/inventory"
)

// TransferHandler handles stock transfer API endpoints
type TransferHandler struct {
	BaseHandler
	transferService *inventoryapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *inventoryapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// CreateTransferRequest represents a request to move stock between locations
type CreateTransferRequest struct {
	TransferType    string  `json:"transfer_type" binding:"required,oneof=warehouse_to_shop warehouse_to_warehouse shop_to_shop shop_to_warehouse"`
	ItemKind        string  `json:"item_kind" binding:"required,oneof=product material"`
	ItemID          string  `json:"item_id" binding:"required,uuid"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	FromWarehouseID string  `json:"from_warehouse_id" binding:"omitempty,uuid"`
	FromShopID      string  `json:"from_shop_id" binding:"omitempty,uuid"`
	ToWarehouseID   string  `json:"to_warehouse_id" binding:"omitempty,uuid"`
	ToShopID        string  `json:"to_shop_id" binding:"omitempty,uuid"`
	Method          string  `json:"method" binding:"omitempty,oneof=FIFO LIFO"`
	Notes           string  `json:"notes" binding:"max=1000"`
}

// transferListQuery narrows and paginates transfer listings
type transferListQuery struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	TransferType string `form:"transfer_type" binding:"omitempty,oneof=warehouse_to_shop warehouse_to_warehouse shop_to_shop shop_to_warehouse"`
	Status       string `form:"status"`
	ItemKind     string `form:"item_kind" binding:"omitempty,oneof=product material"`
	ItemID       string `form:"item_id" binding:"omitempty,uuid"`
}

// Transfer moves stock between locations, consuming source batches and
// creating mirrored batches at the destination.
func (h *TransferHandler) Transfer(c *gin.Context) {
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

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	fromWarehouseID, err := parseOptionalUUID(req.FromWarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid from warehouse ID format")
		return
	}
	fromShopID, err := parseOptionalUUID(req.FromShopID)
	if err != nil {
		h.BadRequest(c, "Invalid from shop ID format")
		return
	}
	toWarehouseID, err := parseOptionalUUID(req.ToWarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid to warehouse ID format")
		return
	}
	toShopID, err := parseOptionalUUID(req.ToShopID)
	if err != nil {
		h.BadRequest(c, "Invalid to shop ID format")
		return
	}

	transfer, err := h.transferService.Transfer(c.Request.Context(), tenantID, userID, inventoryapp.TransferRequest{
		TransferType:    req.TransferType,
		ItemKind:        req.ItemKind,
		ItemID:          itemID,
		Quantity:        toDecimal(req.Quantity),
		FromWarehouseID: fromWarehouseID,
		FromShopID:      fromShopID,
		ToWarehouseID:   toWarehouseID,
		ToShopID:        toShopID,
		Method:          req.Method,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transfer)
}

// GetTransfer retrieves a transfer by its ID.
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	transfer, err := h.transferService.GetTransfer(c.Request.Context(), tenantID, transferID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// ListTransfers retrieves a paginated, filtered list of transfers.
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query transferListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := parseOptionalUUID(query.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	filter := inventoryapp.TransferListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		TransferType: query.TransferType,
		Status:       query.Status,
		ItemKind:     query.ItemKind,
		ItemID:       itemID,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	transfers, total, err := h.transferService.ListTransfers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transfers, total, filter.Page, filter.PageSize)
}
