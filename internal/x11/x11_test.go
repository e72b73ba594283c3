package x11

import (
	"image"
	"image/color"
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/window"
)

func TestKeyFromKeysym(t *testing.T) {
	tests := []struct {
		name string
		want device.Key
	}{
		{"a", device.KeyA},
		{"Z", device.KeyZ},
		{"7", device.Key7},
		{"Return", device.KeyReturn},
		{"Prior", device.KeyPageUp},
		{"F12", device.KeyF12},
		{"KP_3", device.KeyNumPad3},
		{"bracketright", device.KeyRightBracket},
		{"exclam", device.KeyNone},
		{"question", device.KeySlash},
		{"XF86AudioPlay", device.KeyNone},
	}
	for _, tt := range tests {
		if got := KeyFromKeysym(tt.name); got != tt.want {
			t.Fatalf("KeyFromKeysym(%q): expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestModifierFromKeysym(t *testing.T) {
	if got := ModifierFromKeysym("Shift_R"); got != device.ModRightShift {
		t.Fatalf("expected rshift, got %s", got)
	}
	if got := ModifierFromKeysym("Super_L"); got != device.ModLeftMeta {
		t.Fatalf("expected lmeta, got %s", got)
	}
	if got := ModifierFromKeysym("a"); got != 0 {
		t.Fatalf("expected no modifier, got %s", got)
	}
}

func TestTextFromKeysym(t *testing.T) {
	tests := map[string]string{
		"a":         "a",
		"A":         "A",
		"space":     " ",
		"exclam":    "!",
		"Return":    "",
		"BackSpace": "",
	}
	for name, want := range tests {
		if got := TextFromKeysym(name); got != want {
			t.Fatalf("TextFromKeysym(%q): expected %q, got %q", name, want, got)
		}
	}
}

func TestUpdateStrutsForMonitor_TopPanelOnSecondMonitor(t *testing.T) {
	left := Monitor{ID: 0, X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Monitor{ID: 1, X: 1920, Y: 0, Width: 1920, Height: 1080}

	// A 30px panel across the right monitor only.
	sp := &ewmh.WmStrutPartial{Top: 30, TopStartX: 1920, TopEndX: 3839}

	var accLeft, accRight dockStruts
	updateStrutsForMonitor(&left, 3840, 1080, sp, &accLeft)
	updateStrutsForMonitor(&right, 3840, 1080, sp, &accRight)

	if accLeft != (dockStruts{}) {
		t.Fatalf("expected no struts on left monitor, got %+v", accLeft)
	}
	if accRight.top != 30 || accRight.left != 0 || accRight.bottom != 0 {
		t.Fatalf("expected 30px top strut on right monitor, got %+v", accRight)
	}
}

func TestSpanOverlap(t *testing.T) {
	w, h := span{0, 0, 100, 100}.overlap(span{50, 60, 200, 200})
	if w != 50 || h != 40 {
		t.Fatalf("expected 50x40, got %dx%d", w, h)
	}
	if w, h := (span{0, 0, 10, 10}).overlap(span{10, 0, 20, 10}); w != 0 || h != 0 {
		t.Fatalf("expected touching rectangles not to overlap, got %dx%d", w, h)
	}
}

func TestPackBitmap(t *testing.T) {
	// 10x2: row 0 has a black pixel at x=0 and a white one at x=9, row 1
	// has a black pixel at x=3 that is only 25% opaque.
	img := image.NewNRGBA(image.Rect(5, 5, 15, 7))
	img.Set(5, 5, color.Black)
	img.Set(14, 5, color.White)
	img.Set(8, 6, color.NRGBA{A: 0x40})

	src, mask := packBitmap(img, 32, true)
	wantMask := []byte{0x01, 0x02, 0, 0, 0, 0, 0, 0}
	wantSrc := []byte{0x01, 0, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(wantMask, mask); diff != "" {
		t.Fatalf("mask mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantSrc, src); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}

	src, mask = packBitmap(img, 8, false)
	if diff := cmp.Diff([]byte{0x80, 0x40, 0, 0}, mask); diff != "" {
		t.Fatalf("msb-first mask mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0x80, 0, 0, 0}, src); diff != "" {
		t.Fatalf("msb-first source mismatch (-want +got):\n%s", diff)
	}
}

func TestCursorGlyph(t *testing.T) {
	tests := map[window.CursorShape]uint16{
		window.ShapeArrow:   xcursor.LeftPtr,
		window.ShapeIBeam:   xcursor.XTerm,
		window.ShapeCross:   xcursor.Crosshair,
		window.ShapeHand:    xcursor.Hand2,
		window.ShapeSizeVer: xcursor.SBVDoubleArrow,
		window.ShapeSizeHor: xcursor.SBHDoubleArrow,
	}
	for shape, want := range tests {
		if got := cursorGlyph(shape); got != want {
			t.Fatalf("cursorGlyph(%s): expected glyph %d, got %d", shape, want, got)
		}
	}
}
