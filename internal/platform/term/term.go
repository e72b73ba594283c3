// Package term runs windows inside a terminal. Each window is a framed
// region of a tcell screen; the terminal supplies keyboard, mouse, focus and
// resize events.
package term

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	xterm "golang.org/x/term"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/platform"
)

const eventBuffer = 256

// Option configures a Platform.
type Option func(*Platform)

// WithScreen uses screen instead of the controlling terminal.
func WithScreen(screen tcell.Screen) Option {
	return func(p *Platform) { p.screen = screen }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Platform) { p.logger = logger }
}

type dialog struct {
	title   string
	message string
}

// Platform implements platform.Platform on a tcell screen.
type Platform struct {
	logger *slog.Logger
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}

	width  int
	height int

	// windows is in stacking order; the last one is on top.
	windows []*Window
	focused *Window
	grab    *Window
	dialogs []dialog
	dirty   bool

	inited bool
}

var (
	_ platform.Platform      = (*Platform)(nil)
	_ platform.DisplayLister = (*Platform)(nil)
	_ platform.Waker         = (*Platform)(nil)
)

func New(opts ...Option) *Platform {
	p := &Platform{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Init takes over the terminal. Without an injected screen both stdin and
// stdout must be terminals.
func (p *Platform) Init() error {
	if p.inited {
		return nil
	}
	if p.screen == nil {
		if !xterm.IsTerminal(int(os.Stdin.Fd())) || !xterm.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("%w: stdin and stdout must be a terminal", platform.ErrNoDisplay)
		}
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("%w: %w", platform.ErrNoDisplay, err)
		}
		p.screen = screen
	}
	if err := p.screen.Init(); err != nil {
		return fmt.Errorf("%w: failed to initialise terminal: %w", platform.ErrNoDisplay, err)
	}
	p.screen.EnableMouse()
	p.screen.EnableFocus()
	p.screen.HideCursor()
	p.width, p.height = p.screen.Size()

	p.events = make(chan tcell.Event, eventBuffer)
	p.done = make(chan struct{})
	go p.poll()

	p.inited = true
	p.dirty = true
	p.logger.Info("terminal initialised", "width", p.width, "height", p.height)
	return nil
}

// poll forwards screen events until the screen is finalised.
func (p *Platform) poll() {
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case p.events <- ev:
		case <-p.done:
			return
		}
	}
}

func (p *Platform) Terminate() error {
	if !p.inited {
		return nil
	}
	close(p.done)
	p.screen.Fini()
	p.inited = false
	p.logger.Info("terminal released")
	return nil
}

func (p *Platform) NewWindow() platform.NativeWindow {
	if !p.inited {
		return nil
	}
	return &Window{p: p}
}

func (p *Platform) DeviceSupported(t device.Type) bool {
	switch t {
	case device.TypeKeyboard, device.TypeMouse, device.TypeCharInput:
		return true
	default:
		return false
	}
}

func (p *Platform) ConnectedGamepads() []device.GamepadStateInfo { return nil }

func (p *Platform) DesktopSize() (int, int) { return p.width, p.height }

// Displays reports the terminal as a single display measured in cells.
func (p *Platform) Displays() ([]platform.Display, error) {
	bounds := platform.Rect{Width: p.width, Height: p.height}
	return []platform.Display{{ID: 0, Name: "terminal", Bounds: bounds, Usable: bounds}}, nil
}

// Wake interrupts the event poller. It is safe to call from any goroutine.
func (p *Platform) Wake() {
	if p.screen == nil {
		return
	}
	_ = p.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// pump handles every buffered terminal event, then redraws if needed.
func (p *Platform) pump() {
	for {
		select {
		case ev := <-p.events:
			p.handle(ev)
		default:
			p.render()
			return
		}
	}
}

func (p *Platform) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.width, p.height = ev.Size()
		for _, w := range p.windows {
			w.relayout()
		}
		p.screen.Sync()
		p.dirty = true
	case *tcell.EventKey:
		if len(p.dialogs) > 0 {
			p.dialogs = p.dialogs[1:]
			p.dirty = true
			return
		}
		if p.focused == nil {
			return
		}
		if ev.Key() == tcell.KeyCtrlQ {
			p.focused.closed = true
			return
		}
		p.focused.key(ev)
	case *tcell.EventMouse:
		p.mouse(ev)
	case *tcell.EventFocus:
		if p.focused != nil {
			p.focused.sink.PostWindowFocusChange(ev.Focused)
		}
	}
}

func (p *Platform) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	target := p.grab
	if target == nil {
		target = p.hit(x, y)
	}
	if target == nil {
		return
	}
	if buttons&pointerButtons != 0 {
		if target != p.focused {
			p.focus(target)
		}
		p.grab = target
	} else {
		p.grab = nil
	}
	target.mouse(x, y, buttons)
}

// hit returns the topmost visible window whose frame contains (x, y).
func (p *Platform) hit(x, y int) *Window {
	for i := len(p.windows) - 1; i >= 0; i-- {
		w := p.windows[i]
		if w.visible() && w.frame.Contains(x, y) {
			return w
		}
	}
	return nil
}

// focus raises w and moves keyboard focus to it. A nil w clears focus.
func (p *Platform) focus(w *Window) {
	if w == p.focused {
		return
	}
	if prev := p.focused; prev != nil {
		prev.sink.PostWindowFocusChange(false)
	}
	p.focused = w
	if w != nil {
		p.raise(w)
		w.sink.PostWindowFocusChange(true)
	}
	p.dirty = true
}

func (p *Platform) raise(w *Window) {
	p.remove(w)
	p.windows = append(p.windows, w)
}

func (p *Platform) remove(w *Window) {
	for i, other := range p.windows {
		if other == w {
			p.windows = append(p.windows[:i], p.windows[i+1:]...)
			return
		}
	}
}

// focusTop gives focus to the topmost visible window.
func (p *Platform) focusTop() {
	for i := len(p.windows) - 1; i >= 0; i-- {
		if p.windows[i].visible() {
			p.focus(p.windows[i])
			return
		}
	}
	p.focus(nil)
}
