package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	wmProtocols xproto.Atom
	wmDelete    xproto.Atom
}

// NewConnection connects to display, or to $DISPLAY when display is empty.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Keysym lookups need the keyboard mapping.
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if c.wmProtocols, err = xprop.Atm(xu, "WM_PROTOCOLS"); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}
	if c.wmDelete, err = xprop.Atm(xu, "WM_DELETE_WINDOW"); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}
	return c, nil
}

// IsDeleteRequest reports whether ev is the window manager asking a window
// to close.
func (c *Connection) IsDeleteRequest(ev xproto.ClientMessageEvent) bool {
	return ev.Type == c.wmProtocols && ev.Format == 32 &&
		xproto.Atom(ev.Data.Data32[0]) == c.wmDelete
}

// ScreenSize returns the size of the default screen in pixels.
func (c *Connection) ScreenSize() (int, int) {
	s := c.XUtil.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

// Poll returns every event already queued on the connection without
// blocking. Request errors are returned separately.
func (c *Connection) Poll() ([]xgb.Event, []xgb.Error) {
	var (
		events []xgb.Event
		errs   []xgb.Error
	)
	for {
		ev, err := c.XUtil.Conn().PollForEvent()
		if ev == nil && err == nil {
			return events, errs
		}
		if err != nil {
			errs = append(errs, err)
		}
		if ev != nil {
			events = append(events, ev)
		}
	}
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
