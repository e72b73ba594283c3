package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/window"
)

const statsInterval = 5 * time.Second

// demoWindow logs every hook and maps a few keys to window operations.
type demoWindow struct {
	window.Base

	logger  *slog.Logger
	text    *device.CharInput
	frames  int
	elapsed time.Duration
}

func newDemoWindow(logger *slog.Logger) *demoWindow {
	return &demoWindow{logger: logger}
}

func (d *demoWindow) log() *slog.Logger {
	return d.logger.With("window_id", d.ID())
}

func (d *demoWindow) Init() {
	w, h := d.Size()
	d.log().Info("window init", "title", d.Title(), "width", w, "height", h, "state", d.State())

	if ctx := d.Context(); ctx != nil {
		d.text = device.NewCharInput(ctx.DeviceDriver(), d.ID())
		d.text.SetInputCallback(func(text string) {
			d.log().Debug("text input", "text", text)
		})
	}
}

func (d *demoWindow) Update(delta time.Duration) bool {
	d.frames++
	d.elapsed += delta
	if d.elapsed >= statsInterval {
		fps := float64(d.frames) / d.elapsed.Seconds()
		d.log().Info("frame stats", "frames", d.frames, "fps", fps)
		d.frames, d.elapsed = 0, 0
	}
	return true
}

func (d *demoWindow) ResetSize(w, h int) {
	d.log().Info("window resized", "width", w, "height", h)
}

func (d *demoWindow) OnDestroy() {
	if d.text != nil {
		d.text.Close()
		d.text = nil
	}
	d.log().Info("window destroyed")
}

func (d *demoWindow) WinMoveEvent(x, y int) {
	d.log().Debug("window moved", "x", x, "y", y)
}

func (d *demoWindow) WinFocusChangeEvent(focused bool) {
	d.log().Debug("focus changed", "focused", focused)
}

func (d *demoWindow) KeyPressEvent(key device.Key, mods device.Modifier) {
	d.log().Debug("key press", "key", key, "mods", mods)
	switch key {
	case device.KeyEsc:
		d.Close()
	case device.KeyF:
		d.toggleState(window.StateFullScreen)
	case device.KeyM:
		d.toggleState(window.StateMaximized)
	case device.KeyN:
		d.SetState(window.StateMinimized)
	case device.KeyC:
		if d.CursorMode() == window.CursorDisabled {
			d.SetCursorMode(window.CursorNormal)
		} else {
			d.SetCursorMode(window.CursorDisabled)
		}
	case device.KeyI:
		w, h := d.Size()
		x, y := d.Position()
		d.ShowInfoDialog(d.Title(), fmt.Sprintf("%dx%d at %d,%d", w, h, x, y))
	}
}

func (d *demoWindow) toggleState(state window.State) {
	if d.State() == state {
		d.SetState(window.StateNormal)
		return
	}
	d.SetState(state)
}

func (d *demoWindow) KeyReleaseEvent(key device.Key, mods device.Modifier) {
	d.log().Debug("key release", "key", key, "mods", mods)
}

func (d *demoWindow) MouseMoveEvent(x, y int) {
	d.log().Debug("mouse move", "x", x, "y", y)
}

func (d *demoWindow) MousePressEvent(button device.MouseButton) {
	d.log().Debug("mouse press", "button", button)
	if button == device.MouseButtonLeft {
		d.SetCursor(window.SystemCursor(window.ShapeHand))
	}
}

func (d *demoWindow) MouseReleaseEvent(button device.MouseButton) {
	d.log().Debug("mouse release", "button", button)
	if button == device.MouseButtonLeft {
		d.ResetCursor()
	}
}

func (d *demoWindow) MouseScrollEvent(dx, dy float64) {
	d.log().Debug("mouse scroll", "dx", dx, "dy", dy)
}

func (d *demoWindow) DropEvent(paths []string) {
	d.log().Info("files dropped", "paths", paths)
}
