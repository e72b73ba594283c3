// Package device multiplexes input from keyboards, mice, gamepads and text
// input onto a single event bus. Producers tag every event with the device
// category and a device id (the target window id for per-window devices);
// handlers subscribe to a category and keep only events carrying their own id.
package device

import (
	"fmt"

	"github.com/1broseidon/winshell/internal/event"
)

// Type is the device category. It doubles as the outer event key.
type Type int

const (
	TypeUnknown Type = iota
	TypeKeyboard
	TypeMouse
	TypeGamepad
	TypeCharInput
)

func (t Type) String() string {
	switch t {
	case TypeKeyboard:
		return "keyboard"
	case TypeMouse:
		return "mouse"
	case TypeGamepad:
		return "gamepad"
	case TypeCharInput:
		return "char_input"
	default:
		return "unknown"
	}
}

// Types lists every concrete device category.
var Types = []Type{TypeKeyboard, TypeMouse, TypeGamepad, TypeCharInput}

// GamepadDeviceID is the id shared by all gamepad events. Gamepads are not
// bound to a window.
const GamepadDeviceID uint32 = 0

// Payload is the category-specific body of a device event. SubKey
// discriminates payloads within one category.
type Payload interface {
	SubKey() int
}

// Event is a device event addressed to (Type, ID).
type Event struct {
	Type    Type
	ID      uint32
	Payload Payload
}

func (e Event) EventKey() int { return int(e.Type) }

func (e Event) String() string {
	return fmt.Sprintf("%s#%d %T", e.Type, e.ID, e.Payload)
}

// Driver owns the device bus and the handler registrations on it.
type Driver struct {
	bus *event.Bus
}

// NewDriver returns a driver with an empty bus.
func NewDriver() *Driver {
	return &Driver{bus: event.NewBus()}
}

// Register subscribes h to its category.
func (d *Driver) Register(h *BaseHandler) {
	if h == nil {
		return
	}
	d.bus.AddHandler(int(h.typ), h)
	h.driver = d
}

// Unregister removes h from its category.
func (d *Driver) Unregister(h *BaseHandler) {
	if h == nil {
		return
	}
	d.bus.RemoveHandler(int(h.typ), h)
	if h.driver == d {
		h.driver = nil
	}
}

// Post queues a device event. Nothing is delivered until ProcessEvents.
func (d *Driver) Post(ev Event) {
	d.bus.Post(ev)
}

// ProcessEvents delivers every queued device event.
func (d *Driver) ProcessEvents() {
	d.bus.ProcessEvents()
}

// Pending reports the number of undelivered device events.
func (d *Driver) Pending() int {
	return d.bus.Len()
}

// Subscribers reports how many handlers listen on category t.
func (d *Driver) Subscribers(t Type) int {
	return d.bus.Handlers(int(t))
}

// BaseHandler filters device events by exact (Type, ID) identity and hands
// matching payloads to its decode function.
type BaseHandler struct {
	typ    Type
	id     uint32
	driver *Driver
	decode func(Payload)
}

// NewHandler creates a handler for (typ, id) and registers it with d when d
// is non-nil.
func NewHandler(d *Driver, typ Type, id uint32, decode func(Payload)) *BaseHandler {
	h := &BaseHandler{typ: typ, id: id, decode: decode}
	if d != nil {
		d.Register(h)
	}
	return h
}

func (h *BaseHandler) Type() Type { return h.typ }

func (h *BaseHandler) ID() uint32 { return h.id }

// Driver returns the driver h is registered with, or nil.
func (h *BaseHandler) Driver() *Driver { return h.driver }

// Close unregisters the handler. It is safe to call more than once.
func (h *BaseHandler) Close() {
	if h.driver != nil {
		h.driver.Unregister(h)
	}
}

func (h *BaseHandler) HandleEvent(ev event.Event) {
	de, ok := ev.(Event)
	if !ok || de.Type != h.typ || de.ID != h.id || de.Payload == nil {
		return
	}
	if h.decode != nil {
		h.decode(de.Payload)
	}
}
