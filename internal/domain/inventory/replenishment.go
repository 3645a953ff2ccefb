package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// ReplenishmentStatus represents the state of a replenishment request
type ReplenishmentStatus string

const (
	ReplenishmentStatusPending   ReplenishmentStatus = "pending"
	ReplenishmentStatusApproved  ReplenishmentStatus = "approved"
	ReplenishmentStatusFulfilled ReplenishmentStatus = "fulfilled"
	ReplenishmentStatusRejected  ReplenishmentStatus = "rejected"
)

// IsValid checks if the status is valid
func (s ReplenishmentStatus) IsValid() bool {
	switch s {
	case ReplenishmentStatusPending, ReplenishmentStatusApproved,
		ReplenishmentStatusFulfilled, ReplenishmentStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true for states that permit no further transitions
func (s ReplenishmentStatus) IsTerminal() bool {
	return s == ReplenishmentStatusFulfilled || s == ReplenishmentStatusRejected
}

// ReplenishmentRequest is a shop's ask for more stock from a warehouse.
// Lifecycle: pending -> approved|rejected, approved -> fulfilled.
// Fulfillment links an already-completed transfer; it never moves stock.
type ReplenishmentRequest struct {
	shared.TenantAggregateRoot
	ShopID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Item           ItemRef             `gorm:"embedded"`
	Quantity       decimal.Decimal     `gorm:"type:numeric(20,4);not null"`
	RequestedBy    uuid.UUID           `gorm:"type:uuid;not null"`
	Status         ReplenishmentStatus `gorm:"type:varchar(16);not null;index"`
	TransferID     *uuid.UUID          `gorm:"type:uuid;index"`
	RejectedReason string              `gorm:"type:text"`
	ReviewedBy     *uuid.UUID          `gorm:"type:uuid"`
	ReviewedAt     *time.Time
}

// TableName returns the database table name
func (ReplenishmentRequest) TableName() string {
	return "stock_replenishment_requests"
}

// NewReplenishmentRequest creates a pending request and raises a
// ReplenishmentRequested event
func NewReplenishmentRequest(
	tenantID uuid.UUID,
	shopID uuid.UUID,
	item ItemRef,
	quantity decimal.Decimal,
	requestedBy uuid.UUID,
) (*ReplenishmentRequest, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shop ID is required")
	}
	if item.IsZero() || !item.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "A valid item reference is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Requested quantity must be positive")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Requesting user is required")
	}

	r := &ReplenishmentRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, requestedBy),
		ShopID:              shopID,
		Item:                item,
		Quantity:            quantity,
		RequestedBy:         requestedBy,
		Status:              ReplenishmentStatusPending,
	}
	r.AddDomainEvent(NewReplenishmentRequestedEvent(r))
	return r, nil
}

// Approve moves a pending request to approved
func (r *ReplenishmentRequest) Approve(reviewedBy uuid.UUID) error {
	if r.Status != ReplenishmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending request can be approved")
	}

	now := time.Now()
	r.Status = ReplenishmentStatusApproved
	r.ReviewedBy = &reviewedBy
	r.ReviewedAt = &now
	r.IncrementVersion()
	r.UpdatedAt = now
	return nil
}

// Reject moves a pending request to the terminal rejected state
func (r *ReplenishmentRequest) Reject(reviewedBy uuid.UUID, reason string) error {
	if r.Status != ReplenishmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending request can be rejected")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "A rejection reason is required")
	}

	now := time.Now()
	r.Status = ReplenishmentStatusRejected
	r.RejectedReason = reason
	r.ReviewedBy = &reviewedBy
	r.ReviewedAt = &now
	r.IncrementVersion()
	r.UpdatedAt = now

	r.AddDomainEvent(NewReplenishmentRejectedEvent(r))
	return nil
}

// Fulfill links a completed transfer to an approved request and moves it
// to the terminal fulfilled state
func (r *ReplenishmentRequest) Fulfill(transferID uuid.UUID) error {
	if r.Status != ReplenishmentStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only an approved request can be fulfilled")
	}
	if transferID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Transfer ID is required")
	}

	r.Status = ReplenishmentStatusFulfilled
	r.TransferID = &transferID
	r.IncrementVersion()
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewReplenishmentFulfilledEvent(r))
	return nil
}
