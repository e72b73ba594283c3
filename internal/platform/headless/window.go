package headless

import (
	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

// Window is a headless native window.
type Window struct {
	p           *Platform
	in          device.Inputs
	sink        platform.Sink
	failInit    bool
	inited      bool
	destroyed   int
	exit        bool
	frames      int
	frameBudget int
	injected    []func()

	cursor     window.Cursor
	cursorMode window.CursorMode
	cursorX    int
	cursorY    int
	restoreX   int
	restoreY   int
	restores   int
}

var _ platform.NativeWindow = (*Window)(nil)

func (w *Window) Init(in device.Inputs, sink platform.Sink) bool {
	if w.failInit || sink == nil {
		return false
	}
	w.in = in
	w.sink = sink
	w.cursorMode = window.CursorNormal
	w.inited = true
	w.p.record(sink.ID(), "Init")
	sink.SetPlatformData(window.PlatformData{NativeWindowHandle: uintptr(sink.ID())})
	sink.Start()
	if mode := sink.CursorMode(); mode != window.CursorNormal {
		w.SetCursorMode(mode)
	}
	return true
}

func (w *Window) IsInited() bool { return w.inited }

// Frame runs injected input, then reports whether the window stays open.
func (w *Window) Frame() bool {
	pending := w.injected
	w.injected = nil
	for _, fn := range pending {
		fn()
	}
	w.frames++
	if w.frameBudget > 0 && w.frames >= w.frameBudget {
		return false
	}
	return !w.exit
}

func (w *Window) Destroy() {
	w.destroyed++
	w.inited = false
	w.p.record(w.id(), "Destroy")
}

func (w *Window) Exit() {
	w.exit = true
	w.p.record(w.id(), "Exit")
}

// SetWindowSize applies the size and reports it back like a window
// manager would.
func (w *Window) SetWindowSize(width, height int) {
	w.p.record(w.id(), "SetWindowSize", width, height)
	if w.sink != nil {
		w.sink.PostWindowSizeEvent(width, height)
	}
}

func (w *Window) SetWindowPos(x, y int) {
	w.p.record(w.id(), "SetWindowPos", x, y)
	if w.sink != nil {
		w.sink.PostWindowPosEvent(x, y)
	}
}

func (w *Window) SetWindowTitle(title string) {
	w.p.record(w.id(), "SetWindowTitle", title)
}

func (w *Window) SetWindowState(state window.State) {
	w.p.record(w.id(), "SetWindowState", state)
	if w.sink == nil {
		return
	}
	switch state {
	case window.StateMaximized, window.StateFullScreen:
		w.sink.PostWindowPosEvent(0, 0)
		w.sink.PostWindowSizeEvent(w.p.desktopW, w.p.desktopH)
	}
}

func (w *Window) SetWindowFlags(flags window.Flags) {
	w.p.record(w.id(), "SetWindowFlags", flags)
}

func (w *Window) ShowInfoDialog(title, message string) {
	w.p.record(w.id(), "ShowInfoDialog", title, message)
}

func (w *Window) SetCursor(c window.Cursor) {
	w.cursor = c
	w.p.record(w.id(), "SetCursor", c.Shape, c.Custom())
}

// SetCursorMode saves the pointer position when capture starts and puts it
// back exactly once when capture ends.
func (w *Window) SetCursorMode(mode window.CursorMode) {
	if mode == w.cursorMode {
		return
	}
	w.p.record(w.id(), "SetCursorMode", mode)
	prev := w.cursorMode
	w.cursorMode = mode

	if mode == window.CursorDisabled {
		w.restoreX, w.restoreY = w.cursorX, w.cursorY
		if w.sink != nil {
			sw, sh := w.sink.Size()
			w.cursorX, w.cursorY = sw/2, sh/2
		}
		return
	}
	if prev == window.CursorDisabled {
		w.cursorX, w.cursorY = w.restoreX, w.restoreY
		w.restores++
	}
}

func (w *Window) SetCursorPosition(x, y int) {
	w.cursorX, w.cursorY = x, y
	w.p.record(w.id(), "SetCursorPosition", x, y)
}

func (w *Window) CursorPosition() (int, int) {
	return w.cursorX, w.cursorY
}

// Frames reports how many frames have been pumped.
func (w *Window) Frames() int { return w.frames }

// Destroyed reports how many times Destroy was called.
func (w *Window) Destroyed() int { return w.destroyed }

// Restores reports how many times the saved pointer position was restored.
func (w *Window) Restores() int { return w.restores }

// Cursor returns the last cursor set.
func (w *Window) Cursor() window.Cursor { return w.cursor }

// Mode returns the applied cursor mode.
func (w *Window) Mode() window.CursorMode { return w.cursorMode }

// Inject queues fn to run at the start of the next Frame, where a real
// backend would read native events.
func (w *Window) Inject(fn func()) {
	w.injected = append(w.injected, fn)
}

func (w *Window) KeyPress(key device.Key, mods device.Modifier) {
	w.in.Keyboard.PostKeyEvent(w.id(), key, mods, device.ActionPress)
}

func (w *Window) KeyRelease(key device.Key, mods device.Modifier) {
	w.in.Keyboard.PostKeyEvent(w.id(), key, mods, device.ActionRelease)
}

func (w *Window) Type(text string) {
	w.in.CharInput.PostCharInput(w.id(), text)
}

func (w *Window) MouseMove(x, y int) {
	w.cursorX, w.cursorY = x, y
	w.in.Mouse.PostMouseMove(w.id(), x, y)
}

func (w *Window) Click(button device.MouseButton) {
	w.in.Mouse.PostMouseButton(w.id(), button, device.ActionPress)
	w.in.Mouse.PostMouseButton(w.id(), button, device.ActionRelease)
}

func (w *Window) Scroll(dx, dy float64) {
	w.in.Mouse.PostMouseScroll(w.id(), dx, dy)
}

// GamepadConnect plugs a pad into slot jid and reports it.
func (w *Window) GamepadConnect(jid uint32, name string) {
	info := device.GamepadStateInfo{JID: jid, Name: name, Action: device.GamepadConnected}
	w.p.gamepads = append(w.p.gamepads, info)
	w.in.Gamepad.PostGamepadState(info)
}

// GamepadDisconnect unplugs the pad in slot jid and reports it.
func (w *Window) GamepadDisconnect(jid uint32) {
	name := ""
	kept := w.p.gamepads[:0]
	for _, pad := range w.p.gamepads {
		if pad.JID == jid {
			name = pad.Name
			continue
		}
		kept = append(kept, pad)
	}
	w.p.gamepads = kept
	w.in.Gamepad.PostGamepadState(device.GamepadStateInfo{JID: jid, Name: name, Action: device.GamepadDisconnected})
}

// GamepadUpdate reports a new button and axis snapshot for slot jid.
func (w *Window) GamepadUpdate(jid uint32, info device.GamepadInfo) {
	w.in.Gamepad.PostGamepadUpdate(jid, info)
}

// Resize simulates the user resizing the window.
func (w *Window) Resize(width, height int) {
	if w.sink != nil {
		w.sink.PostWindowSizeEvent(width, height)
	}
}

func (w *Window) Move(x, y int) {
	if w.sink != nil {
		w.sink.PostWindowPosEvent(x, y)
	}
}

func (w *Window) Focus(focused bool) {
	if w.sink != nil {
		w.sink.PostWindowFocusChange(focused)
	}
}

func (w *Window) Drop(paths ...string) {
	if w.sink != nil {
		w.sink.PostDropEvent(paths)
	}
}

// RequestClose simulates the window manager's close button.
func (w *Window) RequestClose() {
	w.exit = true
}

func (w *Window) id() uint32 {
	if w.sink == nil {
		return 0
	}
	return w.sink.ID()
}
