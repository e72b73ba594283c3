// Package platform declares the contract between the window runtime and a
// native windowing backend.
package platform

import (
	"errors"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/window"
)

// ErrNoDisplay is returned by Init when the backend cannot reach a display.
var ErrNoDisplay = errors.New("no display available")

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Platform is a native windowing system. All methods are called from the
// loop goroutine.
type Platform interface {
	Init() error
	Terminate() error
	// NewWindow returns an uninitialised native window, or nil when the
	// backend cannot create one.
	NewWindow() NativeWindow
	DeviceSupported(t device.Type) bool
	ConnectedGamepads() []device.GamepadStateInfo
	DesktopSize() (w, h int)
}

// DisplayLister is implemented by platforms that can enumerate monitors.
type DisplayLister interface {
	Displays() ([]Display, error)
}

// Waker is implemented by platforms whose Frame may block waiting for
// native events. Wake must unblock a pending or the next Frame call and may
// be called from any goroutine.
type Waker interface {
	Wake()
}

// NativeWindow is one backend window.
type NativeWindow interface {
	// Init creates the native resources for win, applies its cached title,
	// geometry, flags and state, then calls win.Start. Input is reported
	// through in.
	Init(in device.Inputs, win Sink) bool
	IsInited() bool
	// Frame pumps pending native events. It returns false once the window
	// should close.
	Frame() bool
	Destroy()

	Exit()
	SetWindowSize(w, h int)
	SetWindowPos(x, y int)
	SetWindowTitle(title string)
	SetWindowState(state window.State)
	SetWindowFlags(flags window.Flags)
	ShowInfoDialog(title, message string)
	SetCursor(c window.Cursor)
	SetCursorMode(mode window.CursorMode)
	SetCursorPosition(x, y int)
	CursorPosition() (x, y int)
}

// Sink is the runtime window as seen by a backend: the cached attributes to
// apply at creation time and the entry points for lifecycle notifications.
// Post methods only queue; delivery happens in the window's next frame.
type Sink interface {
	ID() uint32
	Title() string
	Position() (x, y int)
	Size() (w, h int)
	State() window.State
	Flags() window.Flags
	CursorMode() window.CursorMode

	// Start is called once by Init after the native window exists.
	Start()
	SetPlatformData(pd window.PlatformData)

	PostExitEvent()
	PostWindowSizeEvent(w, h int)
	PostWindowPosEvent(x, y int)
	PostDropEvent(paths []string)
	PostWindowFocusChange(focused bool)
}
