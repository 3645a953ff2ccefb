package event

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/retailops/backend/internal/domain/shared"
)

// ledgerEvent is a minimal domain event used across the package tests. The
// event type is injected so one fixture covers every routing scenario.
type ledgerEvent struct {
	shared.BaseDomainEvent
	Quantity string `json:"quantity"`
}

func newLedgerEvent(eventType string, tenantID uuid.UUID) *ledgerEvent {
	return &ledgerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "StockBatch", uuid.New(), tenantID),
		Quantity:        "25",
	}
}

// recordingHandler captures every event it receives and can be told to fail.
type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	seen       []shared.DomainEvent
	failWith   error
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event)
	return h.failWith
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) failNext(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failWith = err
}

func (h *recordingHandler) events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.seen...)
}
