// Package event provides the integer-keyed event queue that every other
// part of the runtime uses to move messages between producers and sinks.
package event

// Event is a message routed by its key. Payload fields live on the concrete
// type; consumers recover them with a type switch.
type Event interface {
	EventKey() int
}

// Handler receives events dispatched by a Bus. Implementations must be
// comparable (normally a pointer type) so registrations can be found again.
type Handler interface {
	HandleEvent(Event)
}

type funcHandler struct {
	fn func(Event)
}

func (f *funcHandler) HandleEvent(ev Event) {
	f.fn(ev)
}

// Bus is a FIFO queue of events plus a key -> ordered handler table.
//
// Posting never dispatches. Events are delivered only by ProcessEvents, on
// the caller's goroutine. A Bus is not safe for concurrent use.
type Bus struct {
	queue    []Event
	handlers map[int][]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int][]Handler)}
}

// Post appends ev to the pending queue.
func (b *Bus) Post(ev Event) {
	if ev == nil {
		return
	}
	b.queue = append(b.queue, ev)
}

// AddHandler registers h for key and returns it. Registering the same
// handler twice for one key is a no-op.
func (b *Bus) AddHandler(key int, h Handler) Handler {
	if h == nil {
		return nil
	}
	if b.handlers == nil {
		b.handlers = make(map[int][]Handler)
	}
	list := b.handlers[key]
	for _, existing := range list {
		if existing == h {
			return h
		}
	}
	b.handlers[key] = append(list, h)
	return h
}

// AddFunc registers fn for key. The returned handler identifies the
// registration for RemoveHandler and Detach.
func (b *Bus) AddFunc(key int, fn func(Event)) Handler {
	if fn == nil {
		return nil
	}
	return b.AddHandler(key, &funcHandler{fn: fn})
}

// RemoveHandler removes h from key and reports how many registrations were
// dropped. An emptied key is pruned.
func (b *Bus) RemoveHandler(key int, h Handler) int {
	list, ok := b.handlers[key]
	if !ok {
		return 0
	}
	kept, removed := without(list, h)
	if removed == 0 {
		return 0
	}
	if len(kept) == 0 {
		delete(b.handlers, key)
	} else {
		b.handlers[key] = kept
	}
	return removed
}

// Detach removes h from every key it is registered under.
func (b *Bus) Detach(h Handler) int {
	total := 0
	for key := range b.handlers {
		total += b.RemoveHandler(key, h)
	}
	return total
}

// RemoveAllHandlers drops every registration. Pending events are kept.
func (b *Bus) RemoveAllHandlers() {
	b.handlers = make(map[int][]Handler)
}

// Clear discards pending events without dispatching them.
func (b *Bus) Clear() {
	for i := range b.queue {
		b.queue[i] = nil
	}
	b.queue = b.queue[:0]
}

// Len reports the number of pending events.
func (b *Bus) Len() int {
	return len(b.queue)
}

// Handlers reports how many handlers are registered for key.
func (b *Bus) Handlers(key int) int {
	return len(b.handlers[key])
}

// ProcessEvents delivers pending events in post order until the queue is
// empty, including events posted by handlers while the drain is running.
// For each event the handlers registered for its key run in registration
// order.
//
// A panicking handler aborts the drain. The event being dispatched is lost;
// events behind it stay queued.
func (b *Bus) ProcessEvents() {
	for len(b.queue) > 0 {
		ev := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		if len(b.queue) == 0 {
			b.queue = nil
		}

		// Removal builds a new slice, so this snapshot stays valid even if
		// a handler unregisters itself or a peer.
		for _, h := range b.handlers[ev.EventKey()] {
			h.HandleEvent(ev)
		}
	}
}

func without(list []Handler, h Handler) ([]Handler, int) {
	removed := 0
	for _, existing := range list {
		if existing == h {
			removed++
		}
	}
	if removed == 0 {
		return list, 0
	}
	kept := make([]Handler, 0, len(list)-removed)
	for _, existing := range list {
		if existing != h {
			kept = append(kept, existing)
		}
	}
	return kept, removed
}
