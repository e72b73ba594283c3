// Package window defines the logical window seen by application code: the
// hooks the runtime calls and the operations a window may request.
package window

import (
	"time"

	"github.com/1broseidon/winshell/internal/device"
)

// Context is the runtime side of a window. Setters record the new value and
// queue a command for the platform; nothing is applied synchronously.
type Context interface {
	ID() uint32
	Title() string
	Position() (x, y int)
	Size() (w, h int)
	State() State
	Flags() Flags
	CursorMode() CursorMode
	Focused() bool
	PlatformData() PlatformData

	SetTitle(title string)
	SetPosition(x, y int)
	SetSize(w, h int)
	SetState(state State)
	SetFlags(flags Flags)
	Close()
	ShowInfoDialog(title, message string)
	SetCursor(c Cursor)
	SetCursorMode(mode CursorMode)
	SetCursorPosition(x, y int)
	CursorPosition() (x, y int)

	DeviceDriver() *device.Driver
	ConnectedGamepads() []device.GamepadStateInfo
}

// Window is implemented by application windows, normally by embedding Base
// and overriding the hooks of interest. All hooks run on the loop goroutine.
type Window interface {
	Bind(ctx Context)

	// Init runs once the native window exists.
	Init()
	// Update runs once per frame. Returning false closes the window.
	Update(delta time.Duration) bool
	ResetSize(w, h int)
	OnDestroy()

	WinMoveEvent(x, y int)
	WinFocusChangeEvent(focused bool)
	KeyPressEvent(key device.Key, mods device.Modifier)
	KeyReleaseEvent(key device.Key, mods device.Modifier)
	MouseMoveEvent(x, y int)
	MousePressEvent(button device.MouseButton)
	MouseReleaseEvent(button device.MouseButton)
	MouseScrollEvent(dx, dy float64)
	DropEvent(paths []string)
}

// Base supplies no-op hooks and forwards operations to the bound Context.
// Operations called before Bind are ignored.
type Base struct {
	ctx Context
}

func (b *Base) Bind(ctx Context) { b.ctx = ctx }

// Context returns the bound runtime context, or nil.
func (b *Base) Context() Context { return b.ctx }

func (b *Base) Init()                                       {}
func (b *Base) Update(time.Duration) bool                   { return true }
func (b *Base) ResetSize(int, int)                          {}
func (b *Base) OnDestroy()                                  {}
func (b *Base) WinMoveEvent(int, int)                       {}
func (b *Base) WinFocusChangeEvent(bool)                    {}
func (b *Base) KeyPressEvent(device.Key, device.Modifier)   {}
func (b *Base) KeyReleaseEvent(device.Key, device.Modifier) {}
func (b *Base) MouseMoveEvent(int, int)                     {}
func (b *Base) MousePressEvent(device.MouseButton)          {}
func (b *Base) MouseReleaseEvent(device.MouseButton)        {}
func (b *Base) MouseScrollEvent(float64, float64)           {}
func (b *Base) DropEvent([]string)                          {}

func (b *Base) ID() uint32 {
	if b.ctx == nil {
		return 0
	}
	return b.ctx.ID()
}

func (b *Base) Title() string {
	if b.ctx == nil {
		return ""
	}
	return b.ctx.Title()
}

func (b *Base) Position() (int, int) {
	if b.ctx == nil {
		return 0, 0
	}
	return b.ctx.Position()
}

func (b *Base) Size() (int, int) {
	if b.ctx == nil {
		return 0, 0
	}
	return b.ctx.Size()
}

func (b *Base) Width() int {
	w, _ := b.Size()
	return w
}

func (b *Base) Height() int {
	_, h := b.Size()
	return h
}

func (b *Base) State() State {
	if b.ctx == nil {
		return StateNormal
	}
	return b.ctx.State()
}

func (b *Base) Flags() Flags {
	if b.ctx == nil {
		return DefaultFlags
	}
	return b.ctx.Flags()
}

func (b *Base) CursorMode() CursorMode {
	if b.ctx == nil {
		return CursorNormal
	}
	return b.ctx.CursorMode()
}

func (b *Base) Focused() bool {
	return b.ctx != nil && b.ctx.Focused()
}

func (b *Base) SetTitle(title string) {
	if b.ctx != nil {
		b.ctx.SetTitle(title)
	}
}

func (b *Base) SetPosition(x, y int) {
	if b.ctx != nil {
		b.ctx.SetPosition(x, y)
	}
}

func (b *Base) SetSize(w, h int) {
	if b.ctx != nil {
		b.ctx.SetSize(w, h)
	}
}

func (b *Base) SetWidth(w int) {
	b.SetSize(w, b.Height())
}

func (b *Base) SetHeight(h int) {
	b.SetSize(b.Width(), h)
}

func (b *Base) SetState(state State) {
	if b.ctx != nil {
		b.ctx.SetState(state)
	}
}

func (b *Base) SetFlags(flags Flags) {
	if b.ctx != nil {
		b.ctx.SetFlags(flags)
	}
}

// Close requests the window be closed. Destruction happens on a later
// scheduler step.
func (b *Base) Close() {
	if b.ctx != nil {
		b.ctx.Close()
	}
}

func (b *Base) ShowInfoDialog(title, message string) {
	if b.ctx != nil {
		b.ctx.ShowInfoDialog(title, message)
	}
}

func (b *Base) SetCursor(c Cursor) {
	if b.ctx != nil {
		b.ctx.SetCursor(c)
	}
}

// ResetCursor restores the arrow cursor.
func (b *Base) ResetCursor() {
	b.SetCursor(SystemCursor(ShapeArrow))
}

func (b *Base) SetCursorMode(mode CursorMode) {
	if b.ctx != nil {
		b.ctx.SetCursorMode(mode)
	}
}

func (b *Base) SetCursorPosition(x, y int) {
	if b.ctx != nil {
		b.ctx.SetCursorPosition(x, y)
	}
}

func (b *Base) CursorPosition() (int, int) {
	if b.ctx == nil {
		return 0, 0
	}
	return b.ctx.CursorPosition()
}

// Devices returns the device driver this window's handlers should register
// with, or nil before Bind.
func (b *Base) Devices() *device.Driver {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.DeviceDriver()
}
