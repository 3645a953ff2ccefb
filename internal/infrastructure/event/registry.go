package event

import (
	"slices"
	"sync"

	"github.com/retailops/backend/internal/domain/shared"
)

// handlerTable tracks which handlers receive which event types. A handler
// registered with no types lands in the catchAll list and sees every event.
type handlerTable struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	catchAll []shared.EventHandler
}

func newHandlerTable() *handlerTable {
	return &handlerTable{
		byType: make(map[string][]shared.EventHandler),
	}
}

func (t *handlerTable) register(handler shared.EventHandler, eventTypes ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(eventTypes) == 0 {
		t.catchAll = append(t.catchAll, handler)
		return
	}
	for _, eventType := range eventTypes {
		t.byType[eventType] = append(t.byType[eventType], handler)
	}
}

// unregister removes the handler everywhere it appears.
func (t *handlerTable) unregister(handler shared.EventHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.catchAll = slices.DeleteFunc(t.catchAll, func(h shared.EventHandler) bool {
		return h == handler
	})
	for eventType, handlers := range t.byType {
		remaining := slices.DeleteFunc(handlers, func(h shared.EventHandler) bool {
			return h == handler
		})
		if len(remaining) == 0 {
			delete(t.byType, eventType)
		} else {
			t.byType[eventType] = remaining
		}
	}
}

// handlersFor returns type-specific handlers followed by catch-all handlers.
func (t *handlerTable) handlersFor(eventType string) []shared.EventHandler {
	t.mu.RLock()
	defer t.mu.RUnlock()

	typed := t.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(t.catchAll))
	out = append(out, typed...)
	return append(out, t.catchAll...)
}
