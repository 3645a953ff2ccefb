package partner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// DebtAdjustmentHandler consumes DebtAdjustmentRequested events from the
// outbox and writes the corresponding supplier debt entries. Outbox
// delivery is at-least-once, so an idempotency store dedupes redeliveries.
type DebtAdjustmentHandler struct {
	logger      *zap.Logger
	debtService *DebtService
	idempotency shared.IdempotencyStore
	ttl         time.Duration
}

// NewDebtAdjustmentHandler creates a new handler for debt adjustment events
func NewDebtAdjustmentHandler(logger *zap.Logger, debtService *DebtService) *DebtAdjustmentHandler {
	return &DebtAdjustmentHandler{
		logger:      logger,
		debtService: debtService,
		ttl:         shared.DefaultIdempotencyConfig().TTL,
	}
}

// WithIdempotencyStore enables duplicate-delivery protection
func (h *DebtAdjustmentHandler) WithIdempotencyStore(store shared.IdempotencyStore) *DebtAdjustmentHandler {
	h.idempotency = store
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *DebtAdjustmentHandler) EventTypes() []string {
	return []string{inventory.EventTypeDebtAdjustmentRequested}
}

// Handle processes a DebtAdjustmentRequestedEvent
func (h *DebtAdjustmentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	debtEvent, ok := event.(*inventory.DebtAdjustmentRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeDebtAdjustmentRequested, event.EventType())
	}

	if h.idempotency != nil {
		fresh, err := h.idempotency.MarkProcessed(ctx, event.EventID().String(), h.ttl)
		if err != nil {
			h.logger.Warn("idempotency check failed, processing anyway",
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		} else if !fresh {
			h.logger.Debug("skipping already processed debt adjustment",
				zap.String("event_id", event.EventID().String()),
			)
			return nil
		}
	}

	batchID := debtEvent.BatchID
	entry, err := h.debtService.RecordAdjustment(ctx,
		event.TenantID(), debtEvent.SupplierID, debtEvent.Amount, debtEvent.Description, &batchID)
	if err != nil {
		h.logger.Error("failed to record supplier debt adjustment",
			zap.String("supplier_id", debtEvent.SupplierID.String()),
			zap.String("batch_id", debtEvent.BatchID.String()),
			zap.String("amount", debtEvent.Amount.String()),
			zap.Error(err),
		)
		return err
	}

	if entry == nil {
		h.logger.Info("debt adjustment skipped, nothing outstanding to refund",
			zap.String("supplier_id", debtEvent.SupplierID.String()),
			zap.String("amount", debtEvent.Amount.String()),
		)
		return nil
	}

	h.logger.Info("supplier debt adjusted",
		zap.String("supplier_id", debtEvent.SupplierID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("amount", entry.Amount.String()),
	)
	return nil
}

// Ensure DebtAdjustmentHandler implements shared.EventHandler
var _ shared.EventHandler = (*DebtAdjustmentHandler)(nil)
