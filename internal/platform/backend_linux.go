//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/x11"
)

// LinuxPlatform drives native windows on an X11 server. All windows share
// one connection; events are read without blocking and routed to the
// window they belong to.
type LinuxPlatform struct {
	display string
	class   string
	logger  *slog.Logger

	conn    *x11.Connection
	cursors *x11.Cursors
	windows map[xproto.Window]*linuxWindow
}

var (
	_ Platform      = (*LinuxPlatform)(nil)
	_ DisplayLister = (*LinuxPlatform)(nil)
)

// NewX11 returns an X11 platform for display ($DISPLAY when empty). class
// is used as the WM_CLASS of every window.
func NewX11(display, class string, logger *slog.Logger) *LinuxPlatform {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxPlatform{
		display: display,
		class:   class,
		logger:  logger,
		windows: make(map[xproto.Window]*linuxWindow),
	}
}

func (p *LinuxPlatform) Init() error {
	if p.conn != nil {
		return nil
	}
	conn, err := x11.NewConnection(p.display)
	if err != nil {
		return fmt.Errorf("%w: failed to connect to X11: %w", ErrNoDisplay, err)
	}
	p.conn = conn
	p.cursors = x11.NewCursors(conn)
	w, h := conn.ScreenSize()
	p.logger.Info("x11 connected", "display", p.display, "screen_width", w, "screen_height", h)
	return nil
}

func (p *LinuxPlatform) Terminate() error {
	if p.conn == nil {
		return nil
	}
	for _, w := range p.windows {
		w.Destroy()
	}
	p.cursors.Free()
	p.conn.Close()
	p.conn = nil
	p.logger.Info("x11 disconnected")
	return nil
}

func (p *LinuxPlatform) NewWindow() NativeWindow {
	if p.conn == nil {
		return nil
	}
	return &linuxWindow{p: p}
}

// DeviceSupported reports keyboard, mouse and text input. The core protocol
// has no joystick support.
func (p *LinuxPlatform) DeviceSupported(t device.Type) bool {
	switch t {
	case device.TypeKeyboard, device.TypeMouse, device.TypeCharInput:
		return true
	default:
		return false
	}
}

func (p *LinuxPlatform) ConnectedGamepads() []device.GamepadStateInfo { return nil }

func (p *LinuxPlatform) DesktopSize() (int, int) {
	if p.conn == nil {
		return 0, 0
	}
	return p.conn.ScreenSize()
}

// Displays returns all active displays.
func (p *LinuxPlatform) Displays() ([]Display, error) {
	if p.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	monitors, err := p.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: rectFromMonitor(m),
			Usable: rectFromMonitor(p.conn.UsableArea(m)),
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// pump reads every queued X event and hands it to its window. Consecutive
// release/press pairs with the same key and timestamp are auto-repeat and
// are delivered as a single repeat.
func (p *LinuxPlatform) pump() {
	if p.conn == nil {
		return
	}
	events, errs := p.conn.Poll()
	for _, err := range errs {
		p.logger.Debug("x11 request error", "error", err)
	}

	for i := 0; i < len(events); i++ {
		switch ev := events[i].(type) {
		case xproto.KeyPressEvent:
			if w := p.windows[ev.Event]; w != nil {
				w.key(ev.Detail, ev.State, ev.Time, device.ActionPress)
			}
		case xproto.KeyReleaseEvent:
			w := p.windows[ev.Event]
			if w == nil {
				continue
			}
			if next, ok := nextKeyPress(events, i); ok && next.Detail == ev.Detail && next.Time == ev.Time {
				w.key(next.Detail, next.State, next.Time, device.ActionRepeat)
				i++
				continue
			}
			w.key(ev.Detail, ev.State, ev.Time, device.ActionRelease)
		case xproto.ButtonPressEvent:
			if w := p.windows[ev.Event]; w != nil {
				w.button(ev.Detail, device.ActionPress)
			}
		case xproto.ButtonReleaseEvent:
			if w := p.windows[ev.Event]; w != nil {
				w.button(ev.Detail, device.ActionRelease)
			}
		case xproto.MotionNotifyEvent:
			if w := p.windows[ev.Event]; w != nil {
				w.motion(int(ev.EventX), int(ev.EventY))
			}
		case xproto.ConfigureNotifyEvent:
			if w := p.windows[ev.Window]; w != nil {
				w.configure(int(ev.Width), int(ev.Height))
			}
		case xproto.FocusInEvent:
			if w := p.windows[ev.Event]; w != nil {
				w.focus(true, ev.Mode)
			}
		case xproto.FocusOutEvent:
			if w := p.windows[ev.Event]; w != nil {
				w.focus(false, ev.Mode)
			}
		case xproto.ClientMessageEvent:
			if w := p.windows[ev.Window]; w != nil && p.conn.IsDeleteRequest(ev) {
				w.closed = true
			}
		case xproto.DestroyNotifyEvent:
			if w := p.windows[ev.Window]; w != nil {
				w.closed = true
			}
		}
	}
}

func nextKeyPress(events []xgb.Event, i int) (xproto.KeyPressEvent, bool) {
	if i+1 >= len(events) {
		return xproto.KeyPressEvent{}, false
	}
	ev, ok := events[i+1].(xproto.KeyPressEvent)
	return ev, ok
}

func rectFromMonitor(m x11.Monitor) Rect {
	return Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}
