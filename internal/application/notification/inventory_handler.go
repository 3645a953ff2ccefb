package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// InventoryEventHandler turns inventory lifecycle events into operator
// notifications: completed transfers and replenishment request activity.
type InventoryEventHandler struct {
	logger   *zap.Logger
	notifier Notifier
}

// NewInventoryEventHandler creates a new handler for inventory events
func NewInventoryEventHandler(logger *zap.Logger, notifier Notifier) *InventoryEventHandler {
	return &InventoryEventHandler{
		logger:   logger,
		notifier: notifier,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InventoryEventHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeTransferCompleted,
		inventory.EventTypeReplenishmentRequested,
		inventory.EventTypeReplenishmentRejected,
		inventory.EventTypeReplenishmentFulfilled,
	}
}

// Handle converts the event into a notification
func (h *InventoryEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	notification := Notification{
		TenantID: event.TenantID().String(),
		Topic:    event.EventType(),
	}

	switch e := event.(type) {
	case *inventory.TransferCompletedEvent:
		notification.Title = "Stock transfer completed"
		notification.Message = fmt.Sprintf("Transferred %s of %s %s (%s)",
			e.Quantity.String(), e.ItemKind, e.ItemID, e.TransferType)
	case *inventory.ReplenishmentRequestedEvent:
		notification.Title = "Replenishment requested"
		notification.Message = fmt.Sprintf("Shop %s requested %s of %s %s",
			e.ShopID, e.Quantity.String(), e.ItemKind, e.ItemID)
	case *inventory.ReplenishmentRejectedEvent:
		notification.Title = "Replenishment rejected"
		notification.Message = fmt.Sprintf("Request for shop %s rejected: %s", e.ShopID, e.Reason)
	case *inventory.ReplenishmentFulfilledEvent:
		notification.Title = "Replenishment fulfilled"
		notification.Message = fmt.Sprintf("Request for shop %s fulfilled by transfer %s", e.ShopID, e.TransferID)
	default:
		h.logger.Debug("ignoring event without notification mapping",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.notifier.Notify(ctx, notification); err != nil {
		h.logger.Error("failed to dispatch notification",
			zap.String("topic", notification.Topic),
			zap.Error(err),
		)
		// delivery failure never fails the event
	}
	return nil
}

// Ensure InventoryEventHandler implements shared.EventHandler
var _ shared.EventHandler = (*InventoryEventHandler)(nil)
