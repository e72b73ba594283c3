package app

import (
	"sync/atomic"
	"time"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

// Lifecycle is the position of a handle in its create/destroy sequence.
type Lifecycle int

const (
	// Pending handles are not known to any context.
	Pending Lifecycle = iota
	// Constructing handles are queued for native window creation.
	Constructing
	// Active handles are in the live set and receive frames.
	Active
	// Exiting handles will be destroyed at the end of the current step.
	Exiting
	// Destroyed handles are finished and cannot be added again.
	Destroyed
)

func (l Lifecycle) String() string {
	switch l {
	case Pending:
		return "pending"
	case Constructing:
		return "constructing"
	case Active:
		return "active"
	case Exiting:
		return "exiting"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

var lastWindowID atomic.Uint32

// Handle is the runtime side of one logical window. It caches the window's
// attributes, relays lifecycle events from the backend to the window's hooks
// and forwards the window's requests to its context.
//
// Setters update the cache immediately. Once the handle belongs to a
// context they also queue a command for the backend.
type Handle struct {
	id     uint32
	win    window.Window
	ctx    *Context
	native platform.NativeWindow
	bus    *event.Bus
	state  Lifecycle

	title      string
	x, y       int
	width      int
	height     int
	winState   window.State
	flags      window.Flags
	cursorMode window.CursorMode
	focused    bool
	pd         window.PlatformData

	started   bool
	keyboard  *device.Keyboard
	mouse     *device.Mouse
	lastFrame time.Time
	framed    bool
}

var (
	_ window.Context = (*Handle)(nil)
	_ platform.Sink  = (*Handle)(nil)
)

// NewWindow creates the handle for w and binds w to it. The window is not
// shown until the handle is added to a context.
func NewWindow(w window.Window, title string, flags window.Flags) *Handle {
	if w == nil {
		w = &window.Base{}
	}
	h := &Handle{
		id:      lastWindowID.Add(1),
		win:     w,
		bus:     event.NewBus(),
		title:   title,
		width:   DefaultWidth,
		height:  DefaultHeight,
		flags:   flags,
		focused: true,
	}
	for _, key := range winEventKeys {
		h.bus.AddFunc(key, h.handleEvent)
	}
	w.Bind(h)
	return h
}

func (h *Handle) ID() uint32                        { return h.id }
func (h *Handle) Window() window.Window             { return h.win }
func (h *Handle) Lifecycle() Lifecycle              { return h.state }
func (h *Handle) Title() string                     { return h.title }
func (h *Handle) Position() (int, int)              { return h.x, h.y }
func (h *Handle) Size() (int, int)                  { return h.width, h.height }
func (h *Handle) State() window.State               { return h.winState }
func (h *Handle) Flags() window.Flags               { return h.flags }
func (h *Handle) CursorMode() window.CursorMode     { return h.cursorMode }
func (h *Handle) Focused() bool                     { return h.focused }
func (h *Handle) PlatformData() window.PlatformData { return h.pd }

func (h *Handle) SetPlatformData(pd window.PlatformData) { h.pd = pd }

func (h *Handle) SetTitle(title string) {
	h.title = title
	if h.ctx != nil {
		h.ctx.PostSetWindowTitle(h, title)
	}
}

func (h *Handle) SetPosition(x, y int) {
	h.x, h.y = x, y
	if h.ctx != nil {
		h.ctx.PostSetWindowPos(h, x, y)
	}
}

func (h *Handle) SetSize(w, height int) {
	h.width, h.height = w, height
	if h.ctx != nil {
		h.ctx.PostSetWindowSize(h, w, height)
	}
}

func (h *Handle) SetState(state window.State) {
	h.winState = state
	if h.ctx != nil {
		h.ctx.PostSetWindowState(h, state)
	}
}

func (h *Handle) SetFlags(flags window.Flags) {
	h.flags = flags
	if h.ctx != nil {
		h.ctx.PostSetWindowFlags(h, flags)
	}
}

// Close asks the backend to close the window. The window is destroyed by
// the scheduler once the backend reports the close.
func (h *Handle) Close() {
	if h.ctx != nil {
		h.ctx.PostExitWindow(h)
	}
}

func (h *Handle) ShowInfoDialog(title, message string) {
	if h.ctx != nil {
		h.ctx.PostShowInfoDialog(h, title, message)
	}
}

func (h *Handle) SetCursor(c window.Cursor) {
	if h.ctx != nil {
		h.ctx.PostSetCursor(h, c)
	}
}

func (h *Handle) SetCursorMode(mode window.CursorMode) {
	h.cursorMode = mode
	if h.ctx != nil {
		h.ctx.PostSetCursorMode(h, mode)
	}
}

func (h *Handle) SetCursorPosition(x, y int) {
	if h.ctx != nil {
		h.ctx.PostSetCursorPos(h, x, y)
	}
}

// CursorPosition asks the backend for the pointer position relative to
// the window.
func (h *Handle) CursorPosition() (int, int) {
	if h.native == nil {
		return 0, 0
	}
	return h.native.CursorPosition()
}

func (h *Handle) DeviceDriver() *device.Driver {
	if h.ctx == nil {
		return nil
	}
	return h.ctx.devices
}

func (h *Handle) ConnectedGamepads() []device.GamepadStateInfo {
	if h.ctx == nil {
		return nil
	}
	return h.ctx.ConnectedGamepads()
}

func (h *Handle) PostExitEvent() {
	h.bus.Post(exitEvent{})
}

func (h *Handle) PostWindowSizeEvent(w, height int) {
	h.bus.Post(sizeEvent{w: w, h: height})
}

func (h *Handle) PostWindowPosEvent(x, y int) {
	h.bus.Post(posEvent{x: x, y: y})
}

func (h *Handle) PostDropEvent(paths []string) {
	h.bus.Post(dropEvent{paths: paths})
}

func (h *Handle) PostWindowFocusChange(focused bool) {
	h.bus.Post(focusEvent{focused: focused})
}

// Start wires the window's keyboard and mouse to its hooks and runs the
// window's Init hook. Backends call it once the native window exists;
// later calls are ignored.
func (h *Handle) Start() {
	if h.started {
		return
	}
	h.started = true
	h.framed = false

	if d := h.DeviceDriver(); d != nil {
		h.keyboard = device.NewKeyboard(d, h.id)
		h.keyboard.SetPressCallback(h.win.KeyPressEvent)
		h.keyboard.SetReleaseCallback(h.win.KeyReleaseEvent)

		h.mouse = device.NewMouse(d, h.id)
		h.mouse.SetMoveCallback(h.win.MouseMoveEvent)
		h.mouse.SetPressCallback(h.win.MousePressEvent)
		h.mouse.SetReleaseCallback(h.win.MouseReleaseEvent)
		h.mouse.SetScrollCallback(h.win.MouseScrollEvent)
	}
	h.win.Init()
}

func (h *Handle) handleEvent(ev event.Event) {
	switch ev := ev.(type) {
	case exitEvent:
		if h.state == Active {
			h.state = Exiting
		}
	case sizeEvent:
		h.width, h.height = ev.w, ev.h
		h.win.ResetSize(ev.w, ev.h)
	case posEvent:
		h.x, h.y = ev.x, ev.y
		h.win.WinMoveEvent(ev.x, ev.y)
	case dropEvent:
		h.win.DropEvent(ev.paths)
	case focusEvent:
		h.focused = ev.focused
		h.win.WinFocusChangeEvent(ev.focused)
	}
}

// frame runs one window step: lifecycle events first, then device input,
// then the Update hook with the time since the previous frame. Update is
// skipped once an exit has been processed.
func (h *Handle) frame(now time.Time) {
	if h.state != Active {
		return
	}
	h.bus.ProcessEvents()
	if h.ctx != nil {
		h.ctx.devices.ProcessEvents()
	}

	var delta time.Duration
	if h.framed {
		delta = now.Sub(h.lastFrame)
	}
	h.lastFrame = now
	h.framed = true

	if h.state != Active {
		return
	}
	if !h.win.Update(delta) {
		h.state = Exiting
	}
}

// destroy runs the OnDestroy hook and releases the native window. It runs
// at most once.
func (h *Handle) destroy() {
	if h.state == Destroyed {
		return
	}
	h.state = Destroyed
	h.releaseDevices()
	h.win.OnDestroy()
	if h.native != nil {
		h.native.Destroy()
		h.native = nil
	}
	h.bus.Clear()
}

func (h *Handle) releaseDevices() {
	if h.keyboard != nil {
		h.keyboard.Close()
		h.keyboard = nil
	}
	if h.mouse != nil {
		h.mouse.Close()
		h.mouse = nil
	}
}
