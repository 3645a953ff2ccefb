package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/retailops/backend/internal/application/partner"
)

// DebtHandler handles supplier debt ledger API endpoints
type DebtHandler struct {
	BaseHandler
	debtService *partnerapp.DebtService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *partnerapp.DebtService) *DebtHandler {
	return &DebtHandler{
		debtService: debtService,
	}
}

// AddDebtRequest represents a request to record a debt entry
type AddDebtRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"max=500"`
	BatchID     string  `json:"batch_id" binding:"omitempty,uuid"`
}

// AddRefundRequest represents a request to record a refund against debt
type AddRefundRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"max=500"`
}

// GetDebt returns a supplier's outstanding debt and its ledger entries.
func (h *DebtHandler) GetDebt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("supplier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	debt, err := h.debtService.GetDebt(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, debt)
}

// AddDebt records a debt entry against a supplier.
func (h *DebtHandler) AddDebt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("supplier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req AddDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batchID, err := parseOptionalUUID(req.BatchID)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	entry, err := h.debtService.AddDebt(c.Request.Context(), tenantID, supplierID, toDecimal(req.Amount), req.Description, batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// AddRefund records a refund entry, capped at the supplier's outstanding debt.
func (h *DebtHandler) AddRefund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("supplier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req AddRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.debtService.AddRefund(c.Request.Context(), tenantID, supplierID, toDecimal(req.Amount), req.Description)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// RemoveEntry deletes a ledger entry belonging to a supplier.
func (h *DebtHandler) RemoveEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("supplier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	entryID, err := uuid.Parse(c.Param("entry_id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	if err := h.debtService.RemoveEntry(c.Request.Context(), tenantID, supplierID, entryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
