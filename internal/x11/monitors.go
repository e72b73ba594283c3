package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one active RandR CRTC in root coordinates.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors lists the active CRTCs in resource order.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	monitors := make([]Monitor, 0, len(res.Crtcs))
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   c.outputName(info.Outputs[0], res.ConfigTimestamp, i),
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

func (c *Connection) outputName(out randr.Output, ts xproto.Timestamp, index int) string {
	info, err := randr.GetOutputInfo(c.XUtil.Conn(), out, ts).Reply()
	if err != nil || len(info.Name) == 0 {
		return fmt.Sprintf("Monitor%d", index)
	}
	return string(info.Name)
}

// UsableArea returns the part of monitor not covered by docks and panels.
func (c *Connection) UsableArea(monitor Monitor) Monitor {
	usable := monitor
	if applyDockStruts(c, &usable) {
		return usable
	}

	// No docks found: use the work area of the current desktop.
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return usable
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]

	w, h := usable.span().overlap(span{int(wa.X), int(wa.Y), int(wa.X) + int(wa.Width), int(wa.Y) + int(wa.Height)})
	if w > 0 && h > 0 {
		usable.X = max(usable.X, int(wa.X))
		usable.Y = max(usable.Y, int(wa.Y))
		usable.Width, usable.Height = w, h
	}
	return usable
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (d dockStruts) empty() bool {
	return d == dockStruts{}
}

// span is a half-open rectangle [x1,x2) x [y1,y2).
type span struct {
	x1, y1, x2, y2 int
}

func (m Monitor) span() span {
	return span{m.X, m.Y, m.X + m.Width, m.Y + m.Height}
}

// overlap returns the size of the intersection of a and b, or 0x0.
func (a span) overlap(b span) (int, int) {
	w := min(a.x2, b.x2) - max(a.x1, b.x1)
	h := min(a.y2, b.y2) - max(a.y1, b.y1)
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return w, h
}

func applyDockStruts(c *Connection, monitor *Monitor) bool {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW, rootH := int(geom.Width), int(geom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var struts dockStruts
	for _, win := range clients {
		if !isDock(c, win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			updateStrutsForMonitor(monitor, rootW, rootH, sp, &struts)
			continue
		}
		// _NET_WM_STRUT without ranges covers the full edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			updateStrutsForMonitor(monitor, rootW, rootH, &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootH - 1),
				RightEndY:  uint(rootH - 1),
				TopEndX:    uint(rootW - 1),
				BottomEndX: uint(rootW - 1),
			}, &struts)
		}
	}
	if struts.empty() {
		return false
	}

	monitor.X += struts.left
	monitor.Y += struts.top
	monitor.Width = max(1, monitor.Width-struts.left-struts.right)
	monitor.Height = max(1, monitor.Height-struts.top-struts.bottom)
	return true
}

func isDock(c *Connection, win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// updateStrutsForMonitor grows acc by the part of each strut of sp that
// lies on monitor.
func updateStrutsForMonitor(monitor *Monitor, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	mon := monitor.span()
	if sp.Top > 0 {
		_, h := mon.overlap(span{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)})
		acc.top = max(acc.top, h)
	}
	if sp.Bottom > 0 {
		_, h := mon.overlap(span{int(sp.BottomStartX), rootH - int(sp.Bottom), int(sp.BottomEndX) + 1, rootH})
		acc.bottom = max(acc.bottom, h)
	}
	if sp.Left > 0 {
		w, _ := mon.overlap(span{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1})
		acc.left = max(acc.left, w)
	}
	if sp.Right > 0 {
		w, _ := mon.overlap(span{rootW - int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY) + 1})
		acc.right = max(acc.right, w)
	}
}
