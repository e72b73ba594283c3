package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// _NET_WM_STATE actions.
const (
	stateRemove = 0
	stateAdd    = 1
)

// WM_STATE values used with WM_CHANGE_STATE.
const iconicState = 3

const windowEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange

// CreateWindow creates an unmapped top-level window that reports input,
// structure and focus events and asks the window manager for delete
// requests instead of being killed.
func (c *Connection) CreateWindow(x, y, width, height int, class string) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}
	s := c.XUtil.Screen()
	err = win.CreateChecked(c.Root, x, y, max(width, 1), max(height, 1),
		xproto.CwBackPixel|xproto.CwEventMask,
		s.BlackPixel, uint32(windowEventMask))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	// Class and pid are hints for the window manager; failures are ignored.
	_ = icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{Instance: class, Class: class})
	_ = ewmh.WmPidSet(c.XUtil, win.Id, uint(os.Getpid()))
	return win, nil
}

// SetTitle sets both the EWMH and the ICCCM window name.
func (c *Connection) SetTitle(win xproto.Window, title string) error {
	if err := ewmh.WmNameSet(c.XUtil, win, title); err != nil {
		return err
	}
	return icccm.WmNameSet(c.XUtil, win, title)
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// SetDecorated toggles window manager decorations through the Motif hints.
func (c *Connection) SetDecorated(win xproto.Window, decorated bool) error {
	hints := &motif.Hints{Flags: motif.HintDecorations}
	if decorated {
		hints.Decoration = motif.DecorationAll
	} else {
		hints.Decoration = motif.DecorationNone
	}
	return motif.WmHintsSet(c.XUtil, win, hints)
}

// SetResizable pins the window's min and max size to its current size when
// resizable is false.
func (c *Connection) SetResizable(win xproto.Window, resizable bool, width, height int) error {
	hints := &icccm.NormalHints{}
	if !resizable {
		hints.Flags = icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(width), uint(width)
		hints.MinHeight, hints.MaxHeight = uint(height), uint(height)
	}
	return icccm.WmNormalHintsSet(c.XUtil, win, hints)
}

// SetMaximized adds or removes both maximized states.
func (c *Connection) SetMaximized(win xproto.Window, on bool) error {
	return ewmh.WmStateReqExtra(c.XUtil, win, stateAction(on),
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 1)
}

// SetFullScreen adds or removes the fullscreen state.
func (c *Connection) SetFullScreen(win xproto.Window, on bool) error {
	return ewmh.WmStateReq(c.XUtil, win, stateAction(on), "_NET_WM_STATE_FULLSCREEN")
}

// Iconify asks the window manager to minimize win with a WM_CHANGE_STATE
// client message. The message is built manually, like the ICCCM describes.
func (c *Connection) Iconify(win xproto.Window) error {
	atom, err := xprop.Atm(c.XUtil, "WM_CHANGE_STATE")
	if err != nil {
		return fmt.Errorf("failed to intern WM_CHANGE_STATE: %w", err)
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// RootPosition translates the window origin to root coordinates.
func (c *Connection) RootPosition(win xproto.Window) (int, int, error) {
	reply, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.DstX), int(reply.DstY), nil
}

func stateAction(on bool) int {
	if on {
		return stateAdd
	}
	return stateRemove
}
