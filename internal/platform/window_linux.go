//go:build linux

package platform

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/window"
	"github.com/1broseidon/winshell/internal/x11"
)

const textBlockingMods = device.ModLeftCtrl | device.ModRightCtrl |
	device.ModLeftAlt | device.ModRightAlt |
	device.ModLeftMeta | device.ModRightMeta

// linuxWindow is one X11 top-level window.
type linuxWindow struct {
	p    *LinuxPlatform
	in   device.Inputs
	sink Sink
	win  *xwindow.Window
	id   xproto.Window

	inited bool
	closed bool

	width  int
	height int
	x      int
	y      int
	flags  window.Flags
	state  window.State
	mods   device.Modifier

	lastPressCode xproto.Keycode
	lastPressTime xproto.Timestamp

	cursor   window.Cursor
	custom   xproto.Cursor
	mode     window.CursorMode
	restoreX int
	restoreY int
	virtX    int
	virtY    int
}

func (w *linuxWindow) Init(in device.Inputs, sink Sink) bool {
	conn := w.p.conn
	if conn == nil || sink == nil {
		return false
	}
	w.width, w.height = sink.Size()
	w.x, w.y = sink.Position()

	xw, err := conn.CreateWindow(w.x, w.y, w.width, w.height, w.p.class)
	if err != nil {
		w.p.logger.Warn("failed to create x11 window", "window_id", sink.ID(), "error", err)
		return false
	}
	w.in = in
	w.sink = sink
	w.win = xw
	w.id = xw.Id
	w.closed = false
	w.mode = window.CursorNormal
	w.p.windows[w.id] = w

	if err := conn.SetTitle(w.id, sink.Title()); err != nil {
		w.p.logger.Debug("failed to set window title", "window_id", sink.ID(), "error", err)
	}
	w.SetWindowFlags(sink.Flags())
	xw.Map()

	w.inited = true
	sink.SetPlatformData(window.PlatformData{NativeWindowHandle: uintptr(w.id)})
	sink.Start()

	if state := sink.State(); state != window.StateNormal {
		w.SetWindowState(state)
	}
	if mode := sink.CursorMode(); mode != window.CursorNormal {
		w.SetCursorMode(mode)
	}
	w.p.logger.Debug("x11 window created", "window_id", sink.ID(), "xid", uint32(w.id))
	return true
}

func (w *linuxWindow) IsInited() bool { return w.inited }

func (w *linuxWindow) Frame() bool {
	if !w.inited {
		return false
	}
	w.p.pump()
	return !w.closed
}

func (w *linuxWindow) Destroy() {
	if !w.inited {
		return
	}
	if w.mode == window.CursorDisabled {
		w.p.conn.UngrabPointer()
	}
	delete(w.p.windows, w.id)
	w.win.Destroy()
	w.releaseCustom()
	w.inited = false
	w.p.logger.Debug("x11 window destroyed", "window_id", w.sink.ID(), "xid", uint32(w.id))
}

// Exit marks the window closed; the next Frame reports it.
func (w *linuxWindow) Exit() { w.closed = true }

func (w *linuxWindow) SetWindowSize(width, height int) {
	if !w.inited {
		return
	}
	if !w.flags.Has(window.FlagResizable) {
		w.setResizable(false, width, height)
	}
	w.win.Resize(width, height)
}

func (w *linuxWindow) SetWindowPos(x, y int) {
	if !w.inited {
		return
	}
	if err := w.p.conn.MoveResizeWindow(w.id, x, y, w.width, w.height); err != nil {
		w.p.logger.Warn("failed to move window", "window_id", w.sink.ID(), "error", err)
	}
}

func (w *linuxWindow) SetWindowTitle(title string) {
	if !w.inited {
		return
	}
	if err := w.p.conn.SetTitle(w.id, title); err != nil {
		w.p.logger.Warn("failed to set window title", "window_id", w.sink.ID(), "error", err)
	}
}

func (w *linuxWindow) SetWindowState(state window.State) {
	if !w.inited {
		return
	}
	conn := w.p.conn
	prev := w.state
	w.state = state

	var err error
	switch state {
	case window.StateNormal:
		if prev == window.StateFullScreen {
			err = conn.SetFullScreen(w.id, false)
		} else if prev == window.StateMaximized {
			err = conn.SetMaximized(w.id, false)
		}
		if prev == window.StateMinimized {
			w.win.Map()
		}
		if err == nil {
			err = conn.FocusWindow(w.id)
		}
	case window.StateMinimized:
		err = conn.Iconify(w.id)
	case window.StateMaximized:
		if prev == window.StateFullScreen {
			err = conn.SetFullScreen(w.id, false)
		}
		if err == nil {
			err = conn.SetMaximized(w.id, true)
		}
	case window.StateFullScreen:
		err = conn.SetFullScreen(w.id, true)
	}
	if err != nil {
		w.p.logger.Warn("failed to change window state", "window_id", w.sink.ID(), "state", state, "error", err)
	}
}

func (w *linuxWindow) SetWindowFlags(flags window.Flags) {
	w.flags = flags
	if w.win == nil {
		return
	}
	if err := w.p.conn.SetDecorated(w.id, flags.Has(window.FlagShowBorder)); err != nil {
		w.p.logger.Debug("failed to set decorations", "window_id", w.sink.ID(), "error", err)
	}
	w.setResizable(flags.Has(window.FlagResizable), w.width, w.height)
}

func (w *linuxWindow) setResizable(resizable bool, width, height int) {
	if err := w.p.conn.SetResizable(w.id, resizable, width, height); err != nil {
		w.p.logger.Debug("failed to set size hints", "window_id", w.sink.ID(), "error", err)
	}
}

// ShowInfoDialog has no native counterpart on X11; the message is logged.
func (w *linuxWindow) ShowInfoDialog(title, message string) {
	var id uint32
	if w.sink != nil {
		id = w.sink.ID()
	}
	w.p.logger.Info("info dialog", "window_id", id, "title", title, "message", message)
}

func (w *linuxWindow) SetCursor(c window.Cursor) {
	w.cursor = c
	w.releaseCustom()
	if w.inited && w.mode == window.CursorNormal {
		w.applyCursor()
	}
}

func (w *linuxWindow) applyCursor() {
	if w.cursor.Custom() {
		if w.custom == 0 {
			cur, err := w.p.cursors.Custom(w.cursor.Image, w.cursor.HotX, w.cursor.HotY)
			if err != nil {
				w.p.logger.Warn("failed to create image cursor, using arrow", "window_id", w.sink.ID(), "error", err)
			}
			w.custom = cur
		}
		if w.custom != 0 {
			w.p.conn.DefineCursor(w.id, w.custom)
			return
		}
	}
	shape := w.cursor.Shape
	if w.cursor.Custom() {
		shape = window.ShapeArrow
	}
	cur, err := w.p.cursors.Shape(shape)
	if err != nil {
		w.p.logger.Warn("failed to create cursor", "window_id", w.sink.ID(), "error", err)
		return
	}
	w.p.conn.DefineCursor(w.id, cur)
}

func (w *linuxWindow) releaseCustom() {
	if w.custom != 0 {
		w.p.cursors.Release(w.custom)
		w.custom = 0
	}
}

func (w *linuxWindow) applyHidden() bool {
	cur, err := w.p.cursors.Hidden()
	if err != nil {
		w.p.logger.Warn("failed to create hidden cursor", "window_id", w.sink.ID(), "error", err)
		return false
	}
	w.p.conn.DefineCursor(w.id, cur)
	return true
}

// SetCursorMode saves the pointer position when capture starts and warps it
// back once when capture ends.
func (w *linuxWindow) SetCursorMode(mode window.CursorMode) {
	if !w.inited || mode == w.mode {
		return
	}
	conn := w.p.conn
	prev := w.mode
	w.mode = mode

	if prev == window.CursorDisabled {
		conn.UngrabPointer()
		conn.WarpPointer(w.id, w.restoreX, w.restoreY)
	}

	switch mode {
	case window.CursorNormal:
		w.applyCursor()
	case window.CursorHidden:
		w.applyHidden()
	case window.CursorDisabled:
		x, y, err := conn.QueryPointer(w.id)
		if err != nil {
			w.p.logger.Debug("failed to query pointer", "window_id", w.sink.ID(), "error", err)
		}
		w.restoreX, w.restoreY = x, y
		w.virtX, w.virtY = x, y
		if !w.applyHidden() {
			return
		}
		w.capture()
	}
}

func (w *linuxWindow) capture() {
	cur, err := w.p.cursors.Hidden()
	if err != nil {
		return
	}
	if err := w.p.conn.GrabPointer(w.id, cur); err != nil {
		w.p.logger.Warn("failed to grab pointer", "window_id", w.sink.ID(), "error", err)
	}
	w.p.conn.WarpPointer(w.id, w.width/2, w.height/2)
}

func (w *linuxWindow) SetCursorPosition(x, y int) {
	if !w.inited {
		return
	}
	if w.mode == window.CursorDisabled {
		w.virtX, w.virtY = x, y
		return
	}
	w.p.conn.WarpPointer(w.id, x, y)
}

func (w *linuxWindow) CursorPosition() (int, int) {
	if !w.inited {
		return 0, 0
	}
	if w.mode == window.CursorDisabled {
		return w.virtX, w.virtY
	}
	x, y, err := w.p.conn.QueryPointer(w.id)
	if err != nil {
		return 0, 0
	}
	return x, y
}

func (w *linuxWindow) configure(width, height int) {
	if width != w.width || height != w.height {
		w.width, w.height = width, height
		w.sink.PostWindowSizeEvent(width, height)
	}
	x, y, err := w.p.conn.RootPosition(w.id)
	if err != nil {
		return
	}
	if x != w.x || y != w.y {
		w.x, w.y = x, y
		w.sink.PostWindowPosEvent(x, y)
	}
}

func (w *linuxWindow) focus(focused bool, mode byte) {
	if mode == xproto.NotifyModeGrab || mode == xproto.NotifyModeUngrab {
		return
	}
	if !focused {
		w.mods = 0
	}
	w.sink.PostWindowFocusChange(focused)
	if focused && w.mode == window.CursorDisabled {
		w.capture()
	}
}

func (w *linuxWindow) key(code xproto.Keycode, state uint16, ts xproto.Timestamp, action device.KeyAction) {
	if action == device.ActionPress {
		if code == w.lastPressCode && ts == w.lastPressTime && ts != 0 {
			return
		}
		w.lastPressCode, w.lastPressTime = code, ts
	}

	name := w.p.conn.KeysymName(code, 0)
	if m := x11.ModifierFromKeysym(name); m != 0 {
		if action == device.ActionRelease {
			w.mods &^= m
		} else {
			w.mods |= m
		}
	}

	id := w.sink.ID()
	if key := x11.KeyFromKeysym(name); key != device.KeyNone {
		w.in.Keyboard.PostKeyEvent(id, key, w.mods, action)
	}
	if action == device.ActionRelease || w.mods&textBlockingMods != 0 {
		return
	}
	if text := x11.TextFromKeysym(w.p.conn.KeysymName(code, state)); text != "" {
		w.in.CharInput.PostCharInput(id, text)
	}
}

func (w *linuxWindow) button(detail xproto.Button, action device.KeyAction) {
	id := w.sink.ID()
	switch detail {
	case xproto.ButtonIndex1:
		w.in.Mouse.PostMouseButton(id, device.MouseButtonLeft, action)
	case xproto.ButtonIndex2:
		w.in.Mouse.PostMouseButton(id, device.MouseButtonMiddle, action)
	case xproto.ButtonIndex3:
		w.in.Mouse.PostMouseButton(id, device.MouseButtonRight, action)
	case xproto.ButtonIndex4, xproto.ButtonIndex5, 6, 7:
		if action != device.ActionPress {
			return
		}
		dx, dy := scrollDelta(detail)
		w.in.Mouse.PostMouseScroll(id, dx, dy)
	}
}

// scrollDelta maps the wheel buttons 4-7 to scroll offsets.
func scrollDelta(detail xproto.Button) (float64, float64) {
	switch detail {
	case xproto.ButtonIndex4:
		return 0, 1
	case xproto.ButtonIndex5:
		return 0, -1
	case 6:
		return 1, 0
	case 7:
		return -1, 0
	}
	return 0, 0
}

// motion reports pointer movement. While the pointer is captured it is kept
// at the window centre and the offsets accumulate into virtual coordinates.
func (w *linuxWindow) motion(x, y int) {
	id := w.sink.ID()
	if w.mode != window.CursorDisabled {
		w.in.Mouse.PostMouseMove(id, x, y)
		return
	}
	cx, cy := w.width/2, w.height/2
	if x == cx && y == cy {
		return
	}
	w.virtX += x - cx
	w.virtY += y - cy
	w.in.Mouse.PostMouseMove(id, w.virtX, w.virtY)
	w.p.conn.WarpPointer(w.id, cx, cy)
}
