package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/retailops/backend/internal/application/inventory"
)

// ReplenishmentHandler handles shop replenishment request API endpoints
type ReplenishmentHandler struct {
	BaseHandler
	replenishmentService *inventoryapp.ReplenishmentService
}

// NewReplenishmentHandler creates a new ReplenishmentHandler
func NewReplenishmentHandler(replenishmentService *inventoryapp.ReplenishmentService) *ReplenishmentHandler {
	return &ReplenishmentHandler{
		replenishmentService: replenishmentService,
	}
}

// CreateReplenishmentRequest represents a shop's request for more stock
type CreateReplenishmentRequest struct {
	ShopID   string  `json:"shop_id" binding:"required,uuid"`
	ItemKind string  `json:"item_kind" binding:"required,oneof=product material"`
	ItemID   string  `json:"item_id" binding:"required,uuid"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// RejectReplenishmentRequest carries the reviewer's rejection reason
type RejectReplenishmentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// FulfillReplenishmentRequest links an executed transfer to the request
type FulfillReplenishmentRequest struct {
	TransferID string `json:"transfer_id" binding:"required,uuid"`
}

// replenishmentListQuery narrows and paginates replenishment listings
type replenishmentListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	ShopID   string `form:"shop_id" binding:"omitempty,uuid"`
	Status   string `form:"status"`
}

// Create opens a new replenishment request in pending state.
func (h *ReplenishmentHandler) Create(c *gin.Context) {
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

	var req CreateReplenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	request, err := h.replenishmentService.Create(c.Request.Context(), tenantID, userID, inventoryapp.CreateReplenishmentRequest{
		ShopID:   shopID,
		ItemKind: req.ItemKind,
		ItemID:   itemID,
		Quantity: toDecimal(req.Quantity),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, request)
}

// Approve moves a pending request to approved.
func (h *ReplenishmentHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	request, err := h.replenishmentService.Approve(c.Request.Context(), tenantID, reviewerID, requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, request)
}

// Reject moves a pending request to rejected with a reason.
func (h *ReplenishmentHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req RejectReplenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.replenishmentService.Reject(c.Request.Context(), tenantID, reviewerID, requestID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, request)
}

// Fulfill marks an approved request as fulfilled by an executed transfer.
func (h *ReplenishmentHandler) Fulfill(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req FulfillReplenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transferID, err := uuid.Parse(req.TransferID)
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	request, err := h.replenishmentService.Fulfill(c.Request.Context(), tenantID, requestID, transferID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, request)
}

// Get retrieves a replenishment request by its ID.
func (h *ReplenishmentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	request, err := h.replenishmentService.Get(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, request)
}

// List retrieves a paginated, filtered list of replenishment requests.
func (h *ReplenishmentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query replenishmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shopID, err := parseOptionalUUID(query.ShopID)
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}

	filter := inventoryapp.ReplenishmentListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		ShopID:   shopID,
		Status:   query.Status,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	requests, total, err := h.replenishmentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, requests, total, filter.Page, filter.PageSize)
}
