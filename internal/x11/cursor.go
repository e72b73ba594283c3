package x11

import (
	"errors"
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/1broseidon/winshell/internal/window"
)

// Cursors caches cursor font cursors and the invisible cursor for one
// connection.
type Cursors struct {
	c      *Connection
	shapes map[window.CursorShape]xproto.Cursor
	hidden xproto.Cursor
}

func NewCursors(c *Connection) *Cursors {
	return &Cursors{c: c, shapes: make(map[window.CursorShape]xproto.Cursor)}
}

func cursorGlyph(shape window.CursorShape) uint16 {
	switch shape {
	case window.ShapeIBeam:
		return xcursor.XTerm
	case window.ShapeCross:
		return xcursor.Crosshair
	case window.ShapeHand:
		return xcursor.Hand2
	case window.ShapeSizeVer:
		return xcursor.SBVDoubleArrow
	case window.ShapeSizeHor:
		return xcursor.SBHDoubleArrow
	default:
		return xcursor.LeftPtr
	}
}

// Shape returns the cursor font cursor for shape, creating it on first use.
func (cs *Cursors) Shape(shape window.CursorShape) (xproto.Cursor, error) {
	if cur, ok := cs.shapes[shape]; ok {
		return cur, nil
	}
	cur, err := xcursor.CreateCursor(cs.c.XUtil, cursorGlyph(shape))
	if err != nil {
		return 0, fmt.Errorf("failed to create %s cursor: %w", shape, err)
	}
	cs.shapes[shape] = cur
	return cur, nil
}

// Hidden returns a 1x1 fully transparent cursor.
func (cs *Cursors) Hidden() (xproto.Cursor, error) {
	if cs.hidden != 0 {
		return cs.hidden, nil
	}
	conn := cs.c.XUtil.Conn()

	pix, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pix, xproto.Drawable(cs.c.Root), 1, 1).Check(); err != nil {
		return 0, fmt.Errorf("failed to create cursor pixmap: %w", err)
	}
	defer xproto.FreePixmap(conn, pix)

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return 0, err
	}
	xproto.CreateGC(conn, gc, xproto.Drawable(pix), xproto.GcForeground, []uint32{0})
	xproto.PolyFillRectangle(conn, xproto.Drawable(pix), gc, []xproto.Rectangle{{X: 0, Y: 0, Width: 1, Height: 1}})
	xproto.FreeGC(conn, gc)

	cur, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreateCursorChecked(conn, cur, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return 0, fmt.Errorf("failed to create hidden cursor: %w", err)
	}
	cs.hidden = cur
	return cur, nil
}

// Custom builds a two-colour cursor from img. Pixels with at least half
// alpha are visible; dark ones are drawn black and light ones white. The
// hot spot is clamped into the image. Release the cursor when it is no
// longer shown.
func (cs *Cursors) Custom(img image.Image, hotX, hotY int) (xproto.Cursor, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, errors.New("empty cursor image")
	}
	conn := cs.c.XUtil.Conn()
	setup := xproto.Setup(conn)
	src, mask := packBitmap(img, int(setup.BitmapFormatScanlinePad), setup.BitmapFormatBitOrder == xproto.ImageOrderLSBFirst)

	b := img.Bounds()
	w, h := uint16(b.Dx()), uint16(b.Dy())
	srcPix, err := cs.bitmap(src, w, h)
	if err != nil {
		return 0, err
	}
	defer xproto.FreePixmap(conn, srcPix)
	maskPix, err := cs.bitmap(mask, w, h)
	if err != nil {
		return 0, err
	}
	defer xproto.FreePixmap(conn, maskPix)

	cur, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	hx := min(max(hotX, 0), b.Dx()-1)
	hy := min(max(hotY, 0), b.Dy()-1)
	if err := xproto.CreateCursorChecked(conn, cur, srcPix, maskPix,
		0, 0, 0, 0xffff, 0xffff, 0xffff, uint16(hx), uint16(hy)).Check(); err != nil {
		return 0, fmt.Errorf("failed to create image cursor: %w", err)
	}
	return cur, nil
}

// Release frees a cursor returned by Custom.
func (cs *Cursors) Release(cur xproto.Cursor) {
	if cur != 0 {
		xproto.FreeCursor(cs.c.XUtil.Conn(), cur)
	}
}

// bitmap uploads packed XY bitmap data into a new depth 1 pixmap.
func (cs *Cursors) bitmap(data []byte, w, h uint16) (xproto.Pixmap, error) {
	conn := cs.c.XUtil.Conn()
	pix, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pix, xproto.Drawable(cs.c.Root), w, h).Check(); err != nil {
		return 0, fmt.Errorf("failed to create cursor pixmap: %w", err)
	}
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.FreePixmap(conn, pix)
		return 0, err
	}
	xproto.CreateGC(conn, gc, xproto.Drawable(pix), 0, nil)
	err = xproto.PutImageChecked(conn, xproto.ImageFormatXYPixmap, xproto.Drawable(pix), gc, w, h, 0, 0, 0, 1, data).Check()
	xproto.FreeGC(conn, gc)
	if err != nil {
		xproto.FreePixmap(conn, pix)
		return 0, fmt.Errorf("failed to upload cursor bitmap: %w", err)
	}
	return pix, nil
}

// packBitmap converts img into the source and mask planes of a cursor.
// Rows are padded to pad bits; lsbFirst selects the server's bit order.
func packBitmap(img image.Image, pad int, lsbFirst bool) (src, mask []byte) {
	if pad < 8 {
		pad = 8
	}
	b := img.Bounds()
	stride := (b.Dx() + pad - 1) / pad * pad / 8
	src = make([]byte, stride*b.Dy())
	mask = make([]byte, stride*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a < 0x8000 {
				continue
			}
			i := y*stride + x/8
			bit := byte(1) << (x % 8)
			if !lsbFirst {
				bit = byte(0x80) >> (x % 8)
			}
			mask[i] |= bit
			if (299*r+587*g+114*bl)/1000 < 0x8000 {
				src[i] |= bit
			}
		}
	}
	return src, mask
}

// Free releases every cursor created so far.
func (cs *Cursors) Free() {
	conn := cs.c.XUtil.Conn()
	for shape, cur := range cs.shapes {
		xproto.FreeCursor(conn, cur)
		delete(cs.shapes, shape)
	}
	if cs.hidden != 0 {
		xproto.FreeCursor(conn, cs.hidden)
		cs.hidden = 0
	}
}

// DefineCursor sets the cursor shown while the pointer is inside win.
func (c *Connection) DefineCursor(win xproto.Window, cur xproto.Cursor) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwCursor, []uint32{uint32(cur)})
}

// QueryPointer returns the pointer position relative to win.
func (c *Connection) QueryPointer(win xproto.Window) (int, int, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.WinX), int(reply.WinY), nil
}

// WarpPointer moves the pointer to (x, y) relative to win.
func (c *Connection) WarpPointer(win xproto.Window, x, y int) {
	xproto.WarpPointer(c.XUtil.Conn(), xproto.WindowNone, win, 0, 0, 0, 0, int16(x), int16(y))
}

// GrabPointer confines the pointer to win and shows cur while grabbed.
func (c *Connection) GrabPointer(win xproto.Window, cur xproto.Cursor) error {
	mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	reply, err := xproto.GrabPointer(c.XUtil.Conn(), true, win, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, win, cur, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("pointer grab refused with status %d", reply.Status)
	}
	return nil
}

func (c *Connection) UngrabPointer() {
	xproto.UngrabPointer(c.XUtil.Conn(), xproto.TimeCurrentTime)
}
