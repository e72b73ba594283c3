// Package headless is an in-memory platform. It creates no native
// resources, records every call made on it and lets callers inject input as
// if it came from a window system.
package headless

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/platform"
)

// Call is one recorded backend operation.
type Call struct {
	Window uint32
	Op     string
	Args   []any
}

func (c Call) String() string {
	return fmt.Sprintf("#%d %s%v", c.Window, c.Op, c.Args)
}

// Option configures a Platform.
type Option func(*Platform)

// WithDesktopSize sets the size reported by DesktopSize.
func WithDesktopSize(w, h int) Option {
	return func(p *Platform) { p.desktopW, p.desktopH = w, h }
}

// WithGamepads sets the pads reported as connected.
func WithGamepads(pads ...device.GamepadStateInfo) Option {
	return func(p *Platform) { p.gamepads = pads }
}

// WithoutDevice marks a device category as unsupported.
func WithoutDevice(t device.Type) Option {
	return func(p *Platform) { p.unsupported[t] = true }
}

// WithInitError makes Init fail with err.
func WithInitError(err error) Option {
	return func(p *Platform) { p.initErr = err }
}

// WithFailingWindows makes the first n native windows fail to initialise.
func WithFailingWindows(n int) Option {
	return func(p *Platform) { p.failWindows = n }
}

// WithFrameBudget makes every window report closed after n frames.
func WithFrameBudget(n int) Option {
	return func(p *Platform) { p.frameBudget = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Platform) { p.logger = logger }
}

// Platform implements platform.Platform without a display.
type Platform struct {
	logger      *slog.Logger
	desktopW    int
	desktopH    int
	gamepads    []device.GamepadStateInfo
	unsupported map[device.Type]bool
	initErr     error
	failWindows int
	frameBudget int

	inited     bool
	terminated bool
	wakes      int
	windows    []*Window
	calls      []Call
}

var (
	_ platform.Platform = (*Platform)(nil)
	_ platform.Waker    = (*Platform)(nil)
)

// New returns a headless platform with a 1920x1080 desktop.
func New(opts ...Option) *Platform {
	p := &Platform{
		desktopW:    1920,
		desktopH:    1080,
		unsupported: make(map[device.Type]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

func (p *Platform) Init() error {
	if p.initErr != nil {
		return p.initErr
	}
	p.inited = true
	return nil
}

func (p *Platform) Terminate() error {
	p.terminated = true
	return nil
}

func (p *Platform) NewWindow() platform.NativeWindow {
	w := &Window{p: p, frameBudget: p.frameBudget}
	if p.failWindows > 0 {
		p.failWindows--
		w.failInit = true
	}
	p.windows = append(p.windows, w)
	return w
}

func (p *Platform) DeviceSupported(t device.Type) bool {
	if t == device.TypeUnknown {
		return false
	}
	return !p.unsupported[t]
}

func (p *Platform) ConnectedGamepads() []device.GamepadStateInfo {
	out := make([]device.GamepadStateInfo, len(p.gamepads))
	copy(out, p.gamepads)
	return out
}

func (p *Platform) DesktopSize() (int, int) {
	return p.desktopW, p.desktopH
}

func (p *Platform) Displays() ([]platform.Display, error) {
	bounds := platform.Rect{Width: p.desktopW, Height: p.desktopH}
	return []platform.Display{{ID: 0, Name: "headless", Bounds: bounds, Usable: bounds}}, nil
}

func (p *Platform) Wake() { p.wakes++ }

// Inited reports whether Init succeeded.
func (p *Platform) Inited() bool { return p.inited }

// Terminated reports whether Terminate was called.
func (p *Platform) Terminated() bool { return p.terminated }

// Wakes reports how many times Wake was called.
func (p *Platform) Wakes() int { return p.wakes }

// Windows returns every native window created so far, in creation order.
func (p *Platform) Windows() []*Window { return p.windows }

// Window returns the native window initialised for id, or nil.
func (p *Platform) Window(id uint32) *Window {
	for _, w := range p.windows {
		if w.sink != nil && w.sink.ID() == id {
			return w
		}
	}
	return nil
}

// Calls returns the recorded operations in call order.
func (p *Platform) Calls() []Call {
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallsFor returns the recorded operations on window id.
func (p *Platform) CallsFor(id uint32) []Call {
	var out []Call
	for _, c := range p.calls {
		if c.Window == id {
			out = append(out, c)
		}
	}
	return out
}

func (p *Platform) record(id uint32, op string, args ...any) {
	p.calls = append(p.calls, Call{Window: id, Op: op, Args: args})
	p.logger.Debug("headless call", "window_id", id, "op", op, "args", args)
}
