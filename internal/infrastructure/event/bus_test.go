package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/shared"
)

func newTestBus() *InMemoryEventBus {
	return NewInMemoryEventBus(zap.NewNop())
}

func TestEventBusDeliversToSubscriber(t *testing.T) {
	bus := newTestBus()
	handler := newRecordingHandler("inventory.transfer_completed")
	bus.Subscribe(handler, "inventory.transfer_completed")

	evt := newLedgerEvent("inventory.transfer_completed", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), evt))

	seen := handler.events()
	require.Len(t, seen, 1)
	assert.Equal(t, evt, seen[0])
}

func TestEventBusDeliversEachEvent(t *testing.T) {
	bus := newTestBus()
	handler := newRecordingHandler("inventory.transfer_completed")
	bus.Subscribe(handler, "inventory.transfer_completed")

	err := bus.Publish(context.Background(),
		newLedgerEvent("inventory.transfer_completed", uuid.New()),
		newLedgerEvent("inventory.transfer_completed", uuid.New()),
	)

	require.NoError(t, err)
	assert.Len(t, handler.events(), 2)
}

func TestEventBusFanOut(t *testing.T) {
	bus := newTestBus()
	first := newRecordingHandler("inventory.replenishment_requested")
	second := newRecordingHandler("inventory.replenishment_requested")
	bus.Subscribe(first, "inventory.replenishment_requested")
	bus.Subscribe(second, "inventory.replenishment_requested")

	require.NoError(t, bus.Publish(context.Background(),
		newLedgerEvent("inventory.replenishment_requested", uuid.New())))

	assert.Len(t, first.events(), 1)
	assert.Len(t, second.events(), 1)
}

func TestEventBusSubscribeUsesHandlerEventTypes(t *testing.T) {
	bus := newTestBus()
	handler := newRecordingHandler("inventory.debt_adjustment_requested")
	// No explicit types: the handler's own EventTypes() decides.
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newLedgerEvent("inventory.debt_adjustment_requested", uuid.New())))
	require.NoError(t, bus.Publish(context.Background(),
		newLedgerEvent("inventory.transfer_completed", uuid.New())))

	assert.Len(t, handler.events(), 1)
}

func TestEventBusCatchAllHandler(t *testing.T) {
	bus := newTestBus()
	handler := newRecordingHandler() // no types at all
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newLedgerEvent("inventory.finance_entry_requested", uuid.New())))

	assert.Len(t, handler.events(), 1)
}

func TestEventBusHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := newTestBus()
	failing := newRecordingHandler("inventory.transfer_completed")
	failing.failNext(errors.New("debt ledger unavailable"))
	healthy := newRecordingHandler("inventory.transfer_completed")
	bus.Subscribe(failing, "inventory.transfer_completed")
	bus.Subscribe(healthy, "inventory.transfer_completed")

	err := bus.Publish(context.Background(),
		newLedgerEvent("inventory.transfer_completed", uuid.New()))

	require.NoError(t, err)
	assert.Len(t, failing.events(), 1)
	assert.Len(t, healthy.events(), 1)
}

func TestEventBusHandlerPanicIsContained(t *testing.T) {
	bus := newTestBus()
	bus.Subscribe(panickingHandler{}, "inventory.transfer_completed")
	healthy := newRecordingHandler("inventory.transfer_completed")
	bus.Subscribe(healthy, "inventory.transfer_completed")

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(),
			newLedgerEvent("inventory.transfer_completed", uuid.New()))
	})
	assert.Len(t, healthy.events(), 1)
}

func TestEventBusNoMatchingHandler(t *testing.T) {
	bus := newTestBus()
	handler := newRecordingHandler("inventory.replenishment_rejected")
	bus.Subscribe(handler, "inventory.replenishment_rejected")

	require.NoError(t, bus.Publish(context.Background(),
		newLedgerEvent("inventory.transfer_completed", uuid.New())))

	assert.Empty(t, handler.events())
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := newTestBus()
	handler := newRecordingHandler("inventory.transfer_completed")
	bus.Subscribe(handler, "inventory.transfer_completed")

	_ = bus.Publish(context.Background(),
		newLedgerEvent("inventory.transfer_completed", uuid.New()))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(),
		newLedgerEvent("inventory.transfer_completed", uuid.New()))

	assert.Len(t, handler.events(), 1)
}

func TestEventBusStartStop(t *testing.T) {
	bus := newTestBus()
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))

	handler := newRecordingHandler("inventory.transfer_completed")
	bus.Subscribe(handler, "inventory.transfer_completed")
	require.NoError(t, bus.Publish(ctx,
		newLedgerEvent("inventory.transfer_completed", uuid.New())))
	assert.Len(t, handler.events(), 1)

	require.NoError(t, bus.Stop(ctx))
}

type panickingHandler struct{}

func (panickingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	panic("corrupt payload")
}

func (panickingHandler) EventTypes() []string {
	return []string{"inventory.transfer_completed"}
}
