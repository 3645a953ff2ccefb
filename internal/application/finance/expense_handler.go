package finance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// ExpenseHandler consumes FinanceEntryRequested events raised by material
// restocks with a known cost price. The default implementation records the
// expense to the log; a bookkeeping backend can replace the recorder.
type ExpenseHandler struct {
	logger   *zap.Logger
	recorder ExpenseRecorder
}

// ExpenseRecorder persists finance expense entries
type ExpenseRecorder interface {
	// RecordExpense records one signed expense amount linked to a batch
	RecordExpense(ctx context.Context, event *inventory.FinanceEntryRequestedEvent) error
}

// NewExpenseHandler creates a new handler for finance entry events
func NewExpenseHandler(logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{logger: logger}
}

// WithRecorder sets the expense recorder
func (h *ExpenseHandler) WithRecorder(recorder ExpenseRecorder) *ExpenseHandler {
	h.recorder = recorder
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *ExpenseHandler) EventTypes() []string {
	return []string{inventory.EventTypeFinanceEntryRequested}
}

// Handle processes a FinanceEntryRequestedEvent
func (h *ExpenseHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	financeEvent, ok := event.(*inventory.FinanceEntryRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeFinanceEntryRequested, event.EventType())
	}

	h.logger.Info("finance entry requested",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("batch_id", financeEvent.BatchID.String()),
		zap.String("item", string(financeEvent.ItemKind)+":"+financeEvent.ItemID.String()),
		zap.String("amount", financeEvent.Amount.String()),
		zap.String("description", financeEvent.Description),
	)

	if h.recorder != nil {
		return h.recorder.RecordExpense(ctx, financeEvent)
	}
	return nil
}

// Ensure ExpenseHandler implements shared.EventHandler
var _ shared.EventHandler = (*ExpenseHandler)(nil)
