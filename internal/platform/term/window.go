package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

const pointerButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// Window is a framed region of the terminal. Sizes and positions are in
// cells; the reported size is the client area inside the border.
type Window struct {
	p    *Platform
	in   device.Inputs
	sink platform.Sink

	inited bool
	closed bool

	title string
	flags window.Flags
	state window.State
	// normal is the client rect used in StateNormal.
	normal platform.Rect
	frame  platform.Rect
	client platform.Rect

	buttons tcell.ButtonMask
	cursor  window.Cursor
	mode    window.CursorMode

	pointerX int
	pointerY int
	virtX    int
	virtY    int
	restoreX int
	restoreY int
	lastX    int
	lastY    int
}

var _ platform.NativeWindow = (*Window)(nil)

func (w *Window) Init(in device.Inputs, sink platform.Sink) bool {
	if !w.p.inited || sink == nil {
		return false
	}
	w.in = in
	w.sink = sink
	w.title = sink.Title()
	w.flags = sink.Flags()
	w.mode = window.CursorNormal
	x, y := sink.Position()
	width, height := sink.Size()
	w.normal = platform.Rect{X: x, Y: y, Width: max(width, 1), Height: max(height, 1)}
	w.closed = false
	w.inited = true
	w.relayout()

	w.p.windows = append(w.p.windows, w)
	sink.SetPlatformData(window.PlatformData{NativeWindowHandle: uintptr(sink.ID())})
	sink.Start()

	if state := sink.State(); state != window.StateNormal {
		w.SetWindowState(state)
	}
	if w.visible() {
		w.p.focus(w)
	}
	if mode := sink.CursorMode(); mode != window.CursorNormal {
		w.SetCursorMode(mode)
	}
	w.p.dirty = true
	w.p.logger.Debug("terminal window created", "window_id", sink.ID(), "frame", w.frame)
	return true
}

func (w *Window) IsInited() bool { return w.inited }

func (w *Window) Frame() bool {
	if !w.inited {
		return false
	}
	w.p.pump()
	return !w.closed
}

func (w *Window) Destroy() {
	if !w.inited {
		return
	}
	w.inited = false
	w.p.remove(w)
	if w.p.grab == w {
		w.p.grab = nil
	}
	if w.p.focused == w {
		w.p.focused = nil
		w.p.focusTop()
	}
	w.p.dirty = true
	w.p.render()
	w.p.logger.Debug("terminal window destroyed", "window_id", w.sink.ID())
}

func (w *Window) Exit() { w.closed = true }

func (w *Window) SetWindowSize(width, height int) {
	if !w.inited {
		return
	}
	w.normal.Width, w.normal.Height = max(width, 1), max(height, 1)
	w.relayout()
}

func (w *Window) SetWindowPos(x, y int) {
	if !w.inited {
		return
	}
	w.normal.X, w.normal.Y = x, y
	w.relayout()
}

func (w *Window) SetWindowTitle(title string) {
	w.title = title
	w.p.dirty = true
}

func (w *Window) SetWindowState(state window.State) {
	if !w.inited || state == w.state {
		return
	}
	w.state = state
	w.relayout()
	switch {
	case state == window.StateMinimized && w.p.focused == w:
		w.p.focusTop()
	case state != window.StateMinimized && w.p.focused != w:
		w.p.focus(w)
	}
}

func (w *Window) SetWindowFlags(flags window.Flags) {
	w.flags = flags
	if w.inited {
		w.relayout()
	}
}

// ShowInfoDialog queues a message box. The next key press dismisses it.
func (w *Window) ShowInfoDialog(title, message string) {
	w.p.dialogs = append(w.p.dialogs, dialog{title: title, message: message})
	w.p.dirty = true
}

// SetCursor maps the shape onto the terminal cursor style. Image cursors
// cannot be shown and fall back to the default style.
func (w *Window) SetCursor(c window.Cursor) {
	w.cursor = c
	w.p.dirty = true
}

// SetCursorMode saves the pointer position when capture starts and puts it
// back once when capture ends. While captured, motion accumulates into
// virtual coordinates.
func (w *Window) SetCursorMode(mode window.CursorMode) {
	if !w.inited || mode == w.mode {
		return
	}
	prev := w.mode
	w.mode = mode
	switch {
	case mode == window.CursorDisabled:
		w.restoreX, w.restoreY = w.pointerX, w.pointerY
		w.virtX, w.virtY = w.pointerX, w.pointerY
		w.lastX, w.lastY = w.pointerX, w.pointerY
	case prev == window.CursorDisabled:
		w.pointerX, w.pointerY = w.restoreX, w.restoreY
	}
	w.p.dirty = true
}

func (w *Window) SetCursorPosition(x, y int) {
	if w.mode == window.CursorDisabled {
		w.virtX, w.virtY = x, y
		return
	}
	w.pointerX, w.pointerY = x, y
	w.p.dirty = true
}

func (w *Window) CursorPosition() (int, int) {
	if w.mode == window.CursorDisabled {
		return w.virtX, w.virtY
	}
	return w.pointerX, w.pointerY
}

func (w *Window) visible() bool {
	return w.inited && w.state != window.StateMinimized
}

func (w *Window) bordered() bool {
	return w.flags.Has(window.FlagShowBorder) && w.state != window.StateFullScreen
}

// relayout recomputes the frame for the current state and screen size and
// reports any change in client geometry.
func (w *Window) relayout() {
	if !w.inited {
		return
	}
	oldClient := w.client

	switch w.state {
	case window.StateMaximized, window.StateFullScreen:
		w.frame = platform.Rect{Width: w.p.width, Height: w.p.height}
		w.client = w.frame
		if w.bordered() {
			w.client = inset(w.frame)
		}
	default:
		w.client = w.normal
		w.frame = w.normal
		if w.bordered() {
			w.frame = platform.Rect{
				X:      w.normal.X - 1,
				Y:      w.normal.Y - 1,
				Width:  w.normal.Width + 2,
				Height: w.normal.Height + 2,
			}
		}
	}
	w.p.dirty = true

	if w.client.X != oldClient.X || w.client.Y != oldClient.Y {
		w.sink.PostWindowPosEvent(w.client.X, w.client.Y)
	}
	if w.client.Width != oldClient.Width || w.client.Height != oldClient.Height {
		w.sink.PostWindowSizeEvent(w.client.Width, w.client.Height)
	}
}

func inset(r platform.Rect) platform.Rect {
	return platform.Rect{
		X:      r.X + 1,
		Y:      r.Y + 1,
		Width:  max(r.Width-2, 0),
		Height: max(r.Height-2, 0),
	}
}

func (w *Window) key(ev *tcell.EventKey) {
	key, mods, text := translateKey(ev)
	id := w.sink.ID()
	if key != device.KeyNone {
		// Terminals report presses only.
		w.in.Keyboard.PostKeyEvent(id, key, mods, device.ActionPress)
		w.in.Keyboard.PostKeyEvent(id, key, mods, device.ActionRelease)
	}
	if text != "" {
		w.in.CharInput.PostCharInput(id, text)
	}
}

// mouse reports pointer input in client coordinates.
func (w *Window) mouse(x, y int, buttons tcell.ButtonMask) {
	id := w.sink.ID()
	cx, cy := x-w.client.X, y-w.client.Y

	if w.mode == window.CursorDisabled {
		if cx != w.lastX || cy != w.lastY {
			w.virtX += cx - w.lastX
			w.virtY += cy - w.lastY
			w.in.Mouse.PostMouseMove(id, w.virtX, w.virtY)
		}
	} else if cx != w.pointerX || cy != w.pointerY {
		w.pointerX, w.pointerY = cx, cy
		w.in.Mouse.PostMouseMove(id, cx, cy)
		w.p.dirty = true
	}
	w.lastX, w.lastY = cx, cy

	for _, b := range buttonMap {
		was, is := w.buttons&b.mask != 0, buttons&b.mask != 0
		switch {
		case is && !was:
			w.in.Mouse.PostMouseButton(id, b.button, device.ActionPress)
		case was && !is:
			w.in.Mouse.PostMouseButton(id, b.button, device.ActionRelease)
		}
	}
	w.buttons = buttons & pointerButtons

	if dx, dy := wheelDelta(buttons); dx != 0 || dy != 0 {
		w.in.Mouse.PostMouseScroll(id, dx, dy)
	}
}
