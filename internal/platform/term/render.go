package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

var (
	styleFrame   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFocused = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleDialog  = tcell.StyleDefault.Reverse(true)
)

// render redraws the screen bottom to top when something changed.
func (p *Platform) render() {
	if !p.dirty || !p.inited {
		return
	}
	p.dirty = false
	p.screen.Clear()

	for _, w := range p.windows {
		if !w.visible() {
			continue
		}
		style := styleFrame
		if w == p.focused {
			style = styleFocused
		}
		if w.bordered() {
			drawBox(p.screen, w.frame, style)
			drawText(p.screen, w.frame.X+2, w.frame.Y, w.frame.Width-4, w.title, style)
		}
		fill(p.screen, w.client, tcell.StyleDefault)
	}

	if len(p.dialogs) > 0 {
		p.drawDialog(p.dialogs[0])
	}
	p.placeCursor()
	p.screen.Show()
}

func (p *Platform) placeCursor() {
	w := p.focused
	if w == nil || !w.visible() || w.mode != window.CursorNormal || len(p.dialogs) > 0 {
		p.screen.HideCursor()
		return
	}
	x, y := w.client.X+w.pointerX, w.client.Y+w.pointerY
	if !w.client.Contains(x, y) {
		p.screen.HideCursor()
		return
	}
	p.screen.SetCursorStyle(cursorStyle(w.cursor))
	p.screen.ShowCursor(x, y)
}

func cursorStyle(c window.Cursor) tcell.CursorStyle {
	if c.Custom() {
		return tcell.CursorStyleDefault
	}
	switch c.Shape {
	case window.ShapeIBeam:
		return tcell.CursorStyleSteadyBar
	case window.ShapeSizeHor, window.ShapeSizeVer:
		return tcell.CursorStyleSteadyUnderline
	default:
		return tcell.CursorStyleSteadyBlock
	}
}

func (p *Platform) drawDialog(d dialog) {
	lines := strings.Split(d.message, "\n")
	width := runewidth.StringWidth(d.title) + 4
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line)+4)
	}
	width = min(width, p.width)
	height := min(len(lines)+2, p.height)

	box := platform.Rect{
		X:      (p.width - width) / 2,
		Y:      (p.height - height) / 2,
		Width:  width,
		Height: height,
	}
	fill(p.screen, box, styleDialog)
	drawBox(p.screen, box, styleDialog)
	drawText(p.screen, box.X+2, box.Y, box.Width-4, d.title, styleDialog)
	for i, line := range lines {
		if i+1 >= box.Height-1 {
			break
		}
		drawText(p.screen, box.X+2, box.Y+1+i, box.Width-4, line, styleDialog)
	}
}

func drawBox(s tcell.Screen, r platform.Rect, style tcell.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1
	for x := r.X + 1; x < right; x++ {
		s.SetContent(x, r.Y, tcell.RuneHLine, nil, style)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetContent(r.X, y, tcell.RuneVLine, nil, style)
		s.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, style)
	s.SetContent(right, r.Y, tcell.RuneURCorner, nil, style)
	s.SetContent(r.X, bottom, tcell.RuneLLCorner, nil, style)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

func fill(s tcell.Screen, r platform.Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawText writes text starting at (x, y), truncated to limit cells.
func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) {
	if limit <= 0 {
		return
	}
	text = runewidth.Truncate(text, limit, "…")
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
