package term

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

type fakeSink struct {
	id      uint32
	title   string
	x, y    int
	w, h    int
	state   window.State
	flags   window.Flags
	mode    window.CursorMode
	started bool
	pd      window.PlatformData
	events  []string
}

func (s *fakeSink) ID() uint32                             { return s.id }
func (s *fakeSink) Title() string                          { return s.title }
func (s *fakeSink) Position() (int, int)                   { return s.x, s.y }
func (s *fakeSink) Size() (int, int)                       { return s.w, s.h }
func (s *fakeSink) State() window.State                    { return s.state }
func (s *fakeSink) Flags() window.Flags                    { return s.flags }
func (s *fakeSink) CursorMode() window.CursorMode          { return s.mode }
func (s *fakeSink) Start()                                 { s.started = true }
func (s *fakeSink) SetPlatformData(pd window.PlatformData) { s.pd = pd }
func (s *fakeSink) PostExitEvent()                         { s.events = append(s.events, "exit") }
func (s *fakeSink) PostDropEvent(paths []string)           { s.events = append(s.events, "drop") }

func (s *fakeSink) PostWindowSizeEvent(w, h int) {
	s.w, s.h = w, h
	s.events = append(s.events, "size")
}

func (s *fakeSink) PostWindowPosEvent(x, y int) {
	s.x, s.y = x, y
	s.events = append(s.events, "pos")
}

func (s *fakeSink) PostWindowFocusChange(focused bool) {
	if focused {
		s.events = append(s.events, "focus")
	} else {
		s.events = append(s.events, "blur")
	}
}

type recorder struct {
	driver *device.Driver
	inputs device.Inputs
	got    []string
}

func newRecorder(id uint32) *recorder {
	d := device.NewDriver()
	r := &recorder{driver: d, inputs: device.NewInputs(d)}

	kb := device.NewKeyboard(d, id)
	kb.SetPressCallback(func(k device.Key, m device.Modifier) {
		r.got = append(r.got, "press:"+k.String()+":"+m.String())
	})
	kb.SetReleaseCallback(func(k device.Key, m device.Modifier) {
		r.got = append(r.got, "release:"+k.String())
	})
	ci := device.NewCharInput(d, id)
	ci.SetInputCallback(func(text string) { r.got = append(r.got, "text:"+text) })
	ms := device.NewMouse(d, id)
	ms.SetMoveCallback(func(x, y int) { r.got = append(r.got, fmt.Sprintf("move:%d,%d", x, y)) })
	ms.SetPressCallback(func(b device.MouseButton) { r.got = append(r.got, "down:"+b.String()) })
	ms.SetReleaseCallback(func(b device.MouseButton) { r.got = append(r.got, "up:"+b.String()) })
	ms.SetScrollCallback(func(dx, dy float64) {
		r.got = append(r.got, fmt.Sprintf("scroll:%g,%g", dx, dy))
	})
	return r
}

func (r *recorder) flush() []string {
	r.driver.ProcessEvents()
	out := r.got
	r.got = nil
	return out
}

func newTestPlatform(t *testing.T) (*Platform, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	p := New(WithScreen(screen), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { _ = p.Terminate() })
	screen.SetSize(80, 25)
	p.width, p.height = 80, 25
	return p, screen
}

func openWindow(t *testing.T, p *Platform, sink *fakeSink, in device.Inputs) *Window {
	t.Helper()
	nw := p.NewWindow()
	if nw == nil {
		t.Fatalf("expected native window")
	}
	if !nw.Init(in, sink) {
		t.Fatalf("expected Init to succeed")
	}
	sink.events = nil
	return nw.(*Window)
}

func TestInit_RequiresTerminalWithoutScreen(t *testing.T) {
	// Test binaries run with stdin redirected, so this is never a terminal.
	p := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := p.Init()
	if err == nil {
		_ = p.Terminate()
		t.Skip("test is attached to a terminal")
	}
	if !errors.Is(err, platform.ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}
}

func TestNewWindow_BeforeInitIsNil(t *testing.T) {
	p := New()
	if nw := p.NewWindow(); nw != nil {
		t.Fatalf("expected nil window before Init, got %T", nw)
	}
}

func TestWindow_InitAppliesGeometry(t *testing.T) {
	p, _ := newTestPlatform(t)
	sink := &fakeSink{id: 1, title: "one", x: 5, y: 3, w: 20, h: 8, flags: window.DefaultFlags}
	w := openWindow(t, p, sink, newRecorder(1).inputs)

	if !sink.started {
		t.Fatalf("expected Start to be called")
	}
	if sink.pd.NativeWindowHandle != 1 {
		t.Fatalf("expected native handle 1, got %d", sink.pd.NativeWindowHandle)
	}
	want := platform.Rect{X: 4, Y: 2, Width: 22, Height: 10}
	if diff := cmp.Diff(want, w.frame); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
	if p.focused != w {
		t.Fatalf("expected new window to take focus")
	}
}

func TestWindow_BorderlessFrameIsClient(t *testing.T) {
	p, _ := newTestPlatform(t)
	sink := &fakeSink{id: 1, x: 0, y: 0, w: 10, h: 4}
	w := openWindow(t, p, sink, newRecorder(1).inputs)

	if w.frame != w.client {
		t.Fatalf("expected frame %v to equal client %v", w.frame, w.client)
	}
}

func TestWindow_MaximizeFollowsScreenResize(t *testing.T) {
	p, _ := newTestPlatform(t)
	sink := &fakeSink{id: 1, x: 2, y: 2, w: 10, h: 5, flags: window.DefaultFlags}
	w := openWindow(t, p, sink, newRecorder(1).inputs)

	w.SetWindowState(window.StateMaximized)
	if sink.w != 78 || sink.h != 23 {
		t.Fatalf("expected maximized client 78x23, got %dx%d", sink.w, sink.h)
	}

	p.handle(tcell.NewEventResize(100, 40))
	if sink.w != 98 || sink.h != 38 {
		t.Fatalf("expected client 98x38 after resize, got %dx%d", sink.w, sink.h)
	}

	w.SetWindowState(window.StateFullScreen)
	if sink.w != 100 || sink.h != 40 || sink.x != 0 || sink.y != 0 {
		t.Fatalf("expected fullscreen 100x40 at origin, got %dx%d at %d,%d", sink.w, sink.h, sink.x, sink.y)
	}

	w.SetWindowState(window.StateNormal)
	if sink.w != 10 || sink.h != 5 || sink.x != 2 || sink.y != 2 {
		t.Fatalf("expected normal geometry restored, got %dx%d at %d,%d", sink.w, sink.h, sink.x, sink.y)
	}
}

func TestWindow_SetSizeReportsBack(t *testing.T) {
	p, _ := newTestPlatform(t)
	sink := &fakeSink{id: 1, x: 1, y: 1, w: 10, h: 5}
	w := openWindow(t, p, sink, newRecorder(1).inputs)

	w.SetWindowSize(30, 10)
	w.SetWindowSize(30, 10)
	w.SetWindowPos(4, 4)

	if diff := cmp.Diff([]string{"size", "pos"}, sink.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestKey_RoutedToFocusedWindow(t *testing.T) {
	p, _ := newTestPlatform(t)
	rec := newRecorder(2)
	openWindow(t, p, &fakeSink{id: 1, w: 10, h: 5}, newRecorder(1).inputs)
	openWindow(t, p, &fakeSink{id: 2, x: 20, w: 10, h: 5}, rec.inputs)

	p.handle(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))

	want := []string{"press:A:none", "release:A", "text:a"}
	if diff := cmp.Diff(want, rec.flush()); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestKey_CtrlQClosesFocusedWindow(t *testing.T) {
	p, _ := newTestPlatform(t)
	w := openWindow(t, p, &fakeSink{id: 1, w: 10, h: 5}, newRecorder(1).inputs)

	p.handle(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	if w.Frame() {
		t.Fatalf("expected Frame to report closed")
	}
}

func TestMouse_ClickFocusesAndUsesClientCoordinates(t *testing.T) {
	p, _ := newTestPlatform(t)
	rec := newRecorder(1)
	sink1 := &fakeSink{id: 1, x: 1, y: 1, w: 10, h: 5, flags: window.DefaultFlags}
	w1 := openWindow(t, p, sink1, rec.inputs)
	w2 := openWindow(t, p, &fakeSink{id: 2, x: 40, y: 1, w: 10, h: 5}, newRecorder(2).inputs)
	if p.focused != w2 {
		t.Fatalf("expected second window focused")
	}
	sink1.events = nil

	p.handle(tcell.NewEventMouse(4, 3, tcell.Button1, tcell.ModNone))
	p.handle(tcell.NewEventMouse(5, 3, tcell.Button1, tcell.ModNone))
	p.handle(tcell.NewEventMouse(60, 20, tcell.ButtonNone, tcell.ModNone))

	if p.focused != w1 {
		t.Fatalf("expected click to focus first window")
	}
	if diff := cmp.Diff([]string{"focus"}, sink1.events); diff != "" {
		t.Fatalf("window events mismatch (-want +got):\n%s", diff)
	}
	// The release lands outside the window but is still delivered to it.
	want := []string{"move:3,2", "down:left", "move:4,2", "move:59,19", "up:left"}
	if diff := cmp.Diff(want, rec.flush()); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestMouse_Wheel(t *testing.T) {
	p, _ := newTestPlatform(t)
	rec := newRecorder(1)
	openWindow(t, p, &fakeSink{id: 1, w: 10, h: 5}, rec.inputs)

	p.handle(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	p.handle(tcell.NewEventMouse(0, 0, tcell.WheelLeft, tcell.ModNone))

	want := []string{"scroll:0,1", "scroll:1,0"}
	if diff := cmp.Diff(want, rec.flush()); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestCursorMode_DisabledRestoresOnce(t *testing.T) {
	p, _ := newTestPlatform(t)
	rec := newRecorder(1)
	w := openWindow(t, p, &fakeSink{id: 1, w: 40, h: 20}, rec.inputs)

	w.SetCursorPosition(7, 9)
	w.SetCursorMode(window.CursorDisabled)
	w.SetCursorMode(window.CursorDisabled)
	p.handle(tcell.NewEventMouse(10, 10, tcell.ButtonNone, tcell.ModNone))
	p.handle(tcell.NewEventMouse(12, 13, tcell.ButtonNone, tcell.ModNone))
	x, y := w.CursorPosition()
	if x != 12 || y != 13 {
		t.Fatalf("expected virtual position 12,13, got %d,%d", x, y)
	}

	w.SetCursorMode(window.CursorNormal)
	x, y = w.CursorPosition()
	if x != 7 || y != 9 {
		t.Fatalf("expected restored position 7,9, got %d,%d", x, y)
	}
}

func TestDialog_ConsumesNextKey(t *testing.T) {
	p, _ := newTestPlatform(t)
	rec := newRecorder(1)
	w := openWindow(t, p, &fakeSink{id: 1, w: 10, h: 5}, rec.inputs)

	w.ShowInfoDialog("About", "winshell")
	p.handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	p.handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	want := []string{"press:Return:none", "release:Return"}
	if diff := cmp.Diff(want, rec.flush()); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestDestroy_FocusMovesToTopWindow(t *testing.T) {
	p, _ := newTestPlatform(t)
	sink1 := &fakeSink{id: 1, w: 10, h: 5}
	openWindow(t, p, sink1, newRecorder(1).inputs)
	w2 := openWindow(t, p, &fakeSink{id: 2, x: 20, w: 10, h: 5}, newRecorder(2).inputs)
	sink1.events = nil

	w2.Destroy()
	if diff := cmp.Diff([]string{"focus"}, sink1.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if len(p.windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(p.windows))
	}
}

func TestFrame_DrainsPolledEvents(t *testing.T) {
	p, screen := newTestPlatform(t)
	rec := newRecorder(1)
	w := openWindow(t, p, &fakeSink{id: 1, w: 10, h: 5}, rec.inputs)

	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)

	deadline := time.Now().Add(2 * time.Second)
	var got []string
	for time.Now().Before(deadline) {
		if !w.Frame() {
			t.Fatalf("expected window to stay open")
		}
		got = append(got, rec.flush()...)
		if len(got) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	want := []string{"press:Z:none", "release:Z", "text:z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		key  device.Key
		mods device.Modifier
		text string
	}{
		{"lower", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), device.KeyQ, 0, "q"},
		{"upper", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift), device.KeyQ, device.ModLeftShift, "Q"},
		{"alt", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), device.KeyX, device.ModLeftAlt, ""},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), device.KeyC, device.ModLeftCtrl, ""},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), device.KeyF5, 0, ""},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), device.KeyReturn, 0, ""},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), device.KeyEsc, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, mods, text := translateKey(tt.ev)
			if key != tt.key || mods != tt.mods || text != tt.text {
				t.Fatalf("expected %v %v %q, got %v %v %q", tt.key, tt.mods, tt.text, key, mods, text)
			}
		})
	}
}

func TestDisplays_SingleTerminal(t *testing.T) {
	p, _ := newTestPlatform(t)
	displays, err := p.Displays()
	if err != nil {
		t.Fatalf("Displays failed: %v", err)
	}
	want := []platform.Display{{
		Name:   "terminal",
		Bounds: platform.Rect{Width: 80, Height: 25},
		Usable: platform.Rect{Width: 80, Height: 25},
	}}
	if diff := cmp.Diff(want, displays); diff != "" {
		t.Fatalf("displays mismatch (-want +got):\n%s", diff)
	}
}
