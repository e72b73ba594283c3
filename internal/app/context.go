// Package app drives logical windows: it admits them, creates their native
// windows, steps them once per loop iteration and tears them down.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/timer"
)

var (
	// ErrPlatformInit wraps a backend initialisation failure.
	ErrPlatformInit = errors.New("platform init failed")
	// ErrRunning is returned by Run when the loop is already running.
	ErrRunning = errors.New("context is already running")
)

// ContextConfig holds configuration for a Context.
type ContextConfig struct {
	Platform platform.Platform
	Logger   *slog.Logger
	// FrameInterval is the minimum duration of one loop iteration. Zero
	// runs iterations back to back.
	FrameInterval time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// task is deferred work executed at the top of a loop iteration.
type task interface {
	run(c *Context)
}

type constructTask struct {
	h *Handle
}

type callTask struct {
	fn func()
}

func (t callTask) run(*Context) { t.fn() }

// Context owns the live windows, the deferred task queue, the command bus
// carrying window requests to the backend, and the device bus carrying
// input from the backend to windows. All of its methods must be called on
// the loop goroutine.
type Context struct {
	platform      platform.Platform
	waker         platform.Waker
	logger        *slog.Logger
	now           func() time.Time
	frameInterval time.Duration

	commands *event.Bus
	devices  *device.Driver
	inputs   device.Inputs
	timers   *timer.Scheduler

	windows     []*Handle
	tasks       []task
	wakePending bool
	running     bool
	inited      bool
}

// NewContext creates a context for cfg.Platform. Call Init before Run.
func NewContext(cfg ContextConfig) *Context {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	c := &Context{
		platform:      cfg.Platform,
		logger:        logger,
		now:           now,
		frameInterval: cfg.FrameInterval,
		commands:      event.NewBus(),
		devices:       device.NewDriver(),
		timers:        timer.New(now),
	}
	c.inputs = device.NewInputs(c.devices)
	c.timers.OnPanic(func(id timer.ID, v any) {
		c.logger.Error("timer panic recovered", "timer_id", id, "error", v)
	})
	if w, ok := cfg.Platform.(platform.Waker); ok {
		c.waker = w
	}
	for _, kind := range commandKinds {
		c.commands.AddFunc(int(kind), c.dispatchCommand)
	}
	return c
}

// Init initialises the platform.
func (c *Context) Init() error {
	if c.platform == nil {
		return fmt.Errorf("%w: no platform configured", ErrPlatformInit)
	}
	if err := c.platform.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrPlatformInit, err)
	}
	c.inited = true
	return nil
}

// Devices returns the driver that device handlers register with.
func (c *Context) Devices() *device.Driver { return c.devices }

// Inputs returns the producers backends post input through.
func (c *Context) Inputs() device.Inputs { return c.inputs }

// Timers returns the scheduler advanced once per loop iteration.
func (c *Context) Timers() *timer.Scheduler { return c.timers }

// Windows returns the live windows in service order.
func (c *Context) Windows() []*Handle {
	out := make([]*Handle, len(c.windows))
	copy(out, c.windows)
	return out
}

// PendingTasks reports the number of queued deferred tasks.
func (c *Context) PendingTasks() int { return len(c.tasks) }

// AddWindow queues h for construction. Handles that are already queued,
// live or destroyed are ignored.
func (c *Context) AddWindow(h *Handle) {
	if h == nil || h.state != Pending {
		return
	}
	h.ctx = c
	h.state = Constructing
	c.tasks = append(c.tasks, constructTask{h: h})
}

// Defer queues fn to run at the top of the next loop iteration.
func (c *Context) Defer(fn func()) {
	if fn == nil {
		return
	}
	c.tasks = append(c.tasks, callTask{fn: fn})
}

// CloseAll asks every live window to close.
func (c *Context) CloseAll() {
	for _, h := range c.windows {
		h.Close()
	}
}

func (c *Context) DesktopSize() (int, int) {
	if c.platform == nil {
		return 0, 0
	}
	return c.platform.DesktopSize()
}

func (c *Context) DeviceSupported(t device.Type) bool {
	return c.platform != nil && c.platform.DeviceSupported(t)
}

func (c *Context) ConnectedGamepads() []device.GamepadStateInfo {
	if c.platform == nil {
		return nil
	}
	return c.platform.ConnectedGamepads()
}

// Run services windows until none are live and no tasks are pending, then
// terminates the platform. Cancelling ctx drops queued tasks and closes
// every live window; Run returns once they have been torn down.
func (c *Context) Run(ctx context.Context) error {
	if c.running {
		return ErrRunning
	}
	if !c.inited {
		if err := c.Init(); err != nil {
			return err
		}
	}
	c.running = true
	defer func() { c.running = false }()

	c.logger.Info("window loop started", "frame_interval", c.frameInterval)

	cancelled := false
	for len(c.windows) > 0 || len(c.tasks) > 0 {
		start := c.now()

		if !cancelled && ctx.Err() != nil {
			cancelled = true
			c.cancel()
		}

		c.runTasks()
		c.timers.Advance()

		now := c.now()
		for i := 0; i < len(c.windows); {
			h := c.windows[i]
			c.step(h, now)
			if h.state == Exiting {
				c.destroyWindow(h)
				c.windows = append(c.windows[:i], c.windows[i+1:]...)
				continue
			}
			i++
		}

		if !cancelled {
			c.pace(ctx, start)
		}
	}

	c.logger.Info("window loop stopped")
	if err := c.platform.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate platform: %w", err)
	}
	return nil
}

func (c *Context) cancel() {
	c.logger.Info("window loop cancelled", "windows", len(c.windows), "tasks", len(c.tasks))
	for _, t := range c.tasks {
		if ct, ok := t.(constructTask); ok {
			ct.h.ctx = nil
			ct.h.state = Pending
		}
	}
	c.tasks = nil
	for _, h := range c.windows {
		h.PostExitEvent()
	}
}

func (c *Context) runTasks() {
	for len(c.tasks) > 0 {
		t := c.tasks[0]
		c.tasks[0] = nil
		c.tasks = c.tasks[1:]
		c.runTask(t)
	}
	c.tasks = nil
}

func (c *Context) runTask(t task) {
	defer func() {
		if err := recover(); err != nil {
			c.logger.Error("deferred task panic recovered", "error", err)
		}
	}()
	t.run(c)
}

func (t constructTask) run(c *Context) {
	h := t.h
	if h.state != Constructing {
		return
	}

	nw := c.platform.NewWindow()
	if nw == nil {
		c.logger.Warn("failed to create native window", "window_id", h.id, "title", h.title)
		h.ctx = nil
		h.state = Pending
		return
	}
	h.native = nw
	if !nw.Init(c.inputs, h) {
		c.logger.Warn("failed to initialise native window", "window_id", h.id, "title", h.title)
		h.releaseDevices()
		h.started = false
		h.native = nil
		h.ctx = nil
		h.state = Pending
		return
	}

	h.state = Active
	c.windows = append(c.windows, h)
	c.logger.Debug("window created", "window_id", h.id, "title", h.title)
}

// step services one window: native events, the window frame, then every
// command queued so far. A panic is logged and the window stays live.
func (c *Context) step(h *Handle, now time.Time) {
	defer func() {
		if err := recover(); err != nil {
			c.logger.Error("window step panic recovered", "window_id", h.id, "error", err)
		}
	}()

	if !c.nativeFrame(h) {
		h.PostExitEvent()
	}
	h.frame(now)
	c.commands.ProcessEvents()
	c.wakePending = false
}

func (c *Context) nativeFrame(h *Handle) bool {
	if h.native == nil {
		return false
	}
	if !h.native.IsInited() {
		return true
	}
	return h.native.Frame()
}

func (c *Context) destroyWindow(h *Handle) {
	defer func() {
		if err := recover(); err != nil {
			c.logger.Error("window destroy panic recovered", "window_id", h.id, "error", err)
		}
	}()
	c.logger.Debug("window destroyed", "window_id", h.id, "title", h.title)
	h.destroy()
}

// wake signals the platform on the first command posted after a drain.
func (c *Context) wake() {
	if c.wakePending {
		return
	}
	c.wakePending = true
	if c.waker != nil {
		c.waker.Wake()
	}
}

func (c *Context) pace(ctx context.Context, start time.Time) {
	if c.frameInterval <= 0 {
		return
	}
	wait := c.frameInterval - c.now().Sub(start)
	if wait <= 0 {
		return
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
