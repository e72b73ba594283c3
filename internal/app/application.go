package app

import (
	"context"
	"log/slog"

	"github.com/1broseidon/winshell/internal/device"
)

// Application owns the process-wide Context and is the entry point for
// running windows.
type Application struct {
	name    string
	ctx     *Context
	logger  *slog.Logger
	initErr error
}

// NewApplication creates the context and initialises the platform. An
// initialisation failure is returned and also makes Exec fail.
func NewApplication(name string, cfg ContextConfig) (*Application, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	a := &Application{
		name:   name,
		ctx:    NewContext(cfg),
		logger: cfg.Logger,
	}
	if err := a.ctx.Init(); err != nil {
		a.initErr = err
		a.logger.Error("init application failure", "app", name, "error", err)
		return a, err
	}
	return a, nil
}

func (a *Application) Name() string            { return a.name }
func (a *Application) SetName(name string)     { a.name = name }
func (a *Application) Context() *Context       { return a.ctx }
func (a *Application) DesktopSize() (int, int) { return a.ctx.DesktopSize() }

func (a *Application) DeviceSupported(t device.Type) bool {
	return a.ctx.DeviceSupported(t)
}

// AddWindow queues h for creation on the next loop iteration.
func (a *Application) AddWindow(h *Handle) {
	a.ctx.AddWindow(h)
}

// Quit asks every live window to close. Exec returns once they are gone.
func (a *Application) Quit() {
	a.ctx.CloseAll()
}

// Exec runs the window loop and returns a process exit status.
func (a *Application) Exec(ctx context.Context) int {
	if a.initErr != nil {
		return 1
	}
	if err := a.ctx.Run(ctx); err != nil {
		a.logger.Error("window loop failed", "app", a.name, "error", err)
		return 1
	}
	return 0
}
