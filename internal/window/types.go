package window

import (
	"fmt"
	"image"
	"strings"
)

// State is the presentation state of a window.
type State int

const (
	StateNormal State = iota
	StateMinimized
	StateMaximized
	StateFullScreen
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	case StateFullScreen:
		return "fullscreen"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseState accepts the names produced by State.String.
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return StateNormal, nil
	case "minimized":
		return StateMinimized, nil
	case "maximized":
		return StateMaximized, nil
	case "fullscreen":
		return StateFullScreen, nil
	}
	return StateNormal, fmt.Errorf("unknown window state %q", s)
}

// Flags is a bitset of window decorations and behaviours.
type Flags uint8

const (
	FlagShowBorder Flags = 0x01
	FlagResizable  Flags = 0x02

	DefaultFlags = FlagShowBorder | FlagResizable
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

func (f Flags) String() string {
	var parts []string
	if f.Has(FlagShowBorder) {
		parts = append(parts, "border")
	}
	if f.Has(FlagResizable) {
		parts = append(parts, "resizable")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// CursorMode controls pointer visibility and capture.
type CursorMode int

const (
	// CursorNormal shows the pointer and lets it leave the window.
	CursorNormal CursorMode = iota
	// CursorHidden hides the pointer while it is over the window.
	CursorHidden
	// CursorDisabled hides and captures the pointer. Motion is reported as
	// unbounded virtual coordinates.
	CursorDisabled
)

func (m CursorMode) String() string {
	switch m {
	case CursorNormal:
		return "normal"
	case CursorHidden:
		return "hidden"
	case CursorDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("cursor_mode(%d)", int(m))
	}
}

func ParseCursorMode(s string) (CursorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return CursorNormal, nil
	case "hidden":
		return CursorHidden, nil
	case "disabled":
		return CursorDisabled, nil
	}
	return CursorNormal, fmt.Errorf("unknown cursor mode %q", s)
}

// CursorShape is a standard system pointer.
type CursorShape int

const (
	ShapeArrow CursorShape = iota
	ShapeIBeam
	ShapeCross
	ShapeHand
	ShapeSizeVer
	ShapeSizeHor
)

func (s CursorShape) String() string {
	switch s {
	case ShapeArrow:
		return "arrow"
	case ShapeIBeam:
		return "ibeam"
	case ShapeCross:
		return "cross"
	case ShapeHand:
		return "hand"
	case ShapeSizeVer:
		return "size_ver"
	case ShapeSizeHor:
		return "size_hor"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Cursor is either a system shape or a custom image with a hot spot.
// A non-nil Image takes precedence over Shape.
type Cursor struct {
	Shape CursorShape
	Image image.Image
	HotX  int
	HotY  int
}

// SystemCursor returns the system cursor for shape.
func SystemCursor(shape CursorShape) Cursor {
	return Cursor{Shape: shape}
}

// CustomCursor returns an image cursor with its hot spot at (hotX, hotY).
func CustomCursor(img image.Image, hotX, hotY int) Cursor {
	return Cursor{Image: img, HotX: hotX, HotY: hotY}
}

func (c Cursor) Custom() bool { return c.Image != nil }

// PlatformData carries native handles a renderer needs to attach to the
// window. Zero values mean "not provided".
type PlatformData struct {
	NativeDisplayType  uintptr
	NativeWindowHandle uintptr
	Context            uintptr
	BackBuffer         uintptr
	BackBufferDS       uintptr
}
