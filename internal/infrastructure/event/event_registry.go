package event

import (
	"github.com/retailops/backend/internal/domain/inventory"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(inventory.EventTypeTransferCompleted, &inventory.TransferCompletedEvent{})
	serializer.Register(inventory.EventTypeReplenishmentRequested, &inventory.ReplenishmentRequestedEvent{})
	serializer.Register(inventory.EventTypeReplenishmentRejected, &inventory.ReplenishmentRejectedEvent{})
	serializer.Register(inventory.EventTypeReplenishmentFulfilled, &inventory.ReplenishmentFulfilledEvent{})
	serializer.Register(inventory.EventTypeDebtAdjustmentRequested, &inventory.DebtAdjustmentRequestedEvent{})
	serializer.Register(inventory.EventTypeFinanceEntryRequested, &inventory.FinanceEntryRequestedEvent{})
}
