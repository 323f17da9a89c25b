package eth

import (
	"sort"
	"sync"

	"tipjar/internal/domain"
)

// Emitter is a listener registry for provider events. Handlers run outside
// the registry lock, so a handler may unsubscribe itself or others.
type Emitter struct {
	mu       sync.Mutex
	next     uint64
	handlers map[domain.EventKind]map[uint64]domain.EventHandler
}

func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[domain.EventKind]map[uint64]domain.EventHandler)}
}

// On registers h for kind and returns its idempotent unsubscribe func.
func (e *Emitter) On(kind domain.EventKind, h domain.EventHandler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.next++
	id := e.next
	if e.handlers[kind] == nil {
		e.handlers[kind] = make(map[uint64]domain.EventHandler)
	}
	e.handlers[kind][id] = h

	return sync.OnceFunc(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers[kind], id)
	})
}

// Emit calls every handler registered for ev.Kind in registration order.
func (e *Emitter) Emit(ev domain.Event) {
	e.mu.Lock()
	ids := make([]uint64, 0, len(e.handlers[ev.Kind]))
	for id := range e.handlers[ev.Kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	hs := make([]domain.EventHandler, 0, len(ids))
	for _, id := range ids {
		hs = append(hs, e.handlers[ev.Kind][id])
	}
	e.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}

// ListenerCount returns how many handlers are registered for kind.
func (e *Emitter) ListenerCount(kind domain.EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[kind])
}
