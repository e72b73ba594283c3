package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/winshell/internal/app"
	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/platform/headless"
	"github.com/1broseidon/winshell/internal/platform/term"
	"github.com/1broseidon/winshell/internal/runtimepath"
)

// newLogger builds the process logger from the logging section.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newPlatform returns the backend named by cfg.Backend.
func newPlatform(cfg *config.Config, logger *slog.Logger) (platform.Platform, error) {
	switch cfg.Backend {
	case config.BackendX11:
		return platform.NewX11(cfg.ResolveDisplay(), cfg.AppName, logger), nil
	case config.BackendTerminal:
		return term.New(term.WithLogger(logger)), nil
	case config.BackendHeadless:
		return headless.New(headless.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

// logOutput picks where logs go. The terminal backend owns the screen, so
// without an explicit file it logs to the runtime directory.
func logOutput(cfg *config.Config, path string) (io.Writer, func(), error) {
	if path == "" && cfg.Backend == config.BackendTerminal {
		p, err := runtimepath.LogPath(cfg.AppName)
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
	backend := fs.String("backend", "", "Backend to use: x11, terminal or headless (overrides config)")
	preset := fs.String("preset", "", "Window preset (default: the window section)")
	count := fs.Int("windows", 1, "Number of windows to open")
	duration := fs.Duration("duration", 0, "Stop after this long (0 runs until every window is closed)")
	logFile := fs.String("log-file", "", "Write logs to this file (terminal backend default: $XDG_RUNTIME_DIR/<app_name>.log)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell run [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open demo windows and run the window loop until they close.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keys inside a window:")
		fmt.Fprintln(os.Stderr, "  Esc       Close the window")
		fmt.Fprintln(os.Stderr, "  F         Toggle fullscreen")
		fmt.Fprintln(os.Stderr, "  M         Toggle maximized")
		fmt.Fprintln(os.Stderr, "  N         Minimize")
		fmt.Fprintln(os.Stderr, "  C         Toggle pointer capture")
		fmt.Fprintln(os.Stderr, "  I         Show an info dialog")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}
	if *count < 1 {
		fmt.Fprintln(os.Stderr, "--windows must be at least 1")
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *backend != "" {
		cfg.Backend = *backend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	winCfg := cfg.Window
	if *preset != "" {
		winCfg, err = cfg.Preset(*preset)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	out, closeLog, err := logOutput(cfg, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()
	logger := newLogger(cfg, out)
	slog.SetDefault(logger)

	plat, err := newPlatform(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	application, err := app.NewApplication(cfg.AppName, app.ContextConfig{
		Platform:      plat,
		Logger:        logger,
		FrameInterval: cfg.FrameInterval,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	actx := application.Context()
	if application.DeviceSupported(device.TypeGamepad) {
		pads := device.NewGamepad(actx.Devices(), actx)
		pads.SetStateCallback(func(info device.GamepadStateInfo) {
			logger.Info("gamepad", "jid", info.JID, "name", info.Name, "action", info.Action)
			if info.Action == device.GamepadConnected {
				pads.SetUpdateCallback(info.JID, func(jid uint32, state device.GamepadInfo) {
					logger.Debug("gamepad update", "jid", jid, "axes", state.Axes)
				})
			} else {
				pads.SetUpdateCallback(info.JID, nil)
			}
		})
		for _, info := range pads.Connected() {
			logger.Info("gamepad present", "jid", info.JID, "name", info.Name)
		}
		defer pads.Close()
	}

	for i := 0; i < *count; i++ {
		title := winCfg.Title
		if *count > 1 {
			title = fmt.Sprintf("%s %d", title, i+1)
		}
		h := app.NewWindow(newDemoWindow(logger), title, winCfg.Flags())
		h.SetPosition(winCfg.X+i*cascadeStep(cfg.Backend), winCfg.Y+i*cascadeStep(cfg.Backend))
		h.SetSize(winCfg.Width, winCfg.Height)
		h.SetState(winCfg.WindowState())
		h.SetCursorMode(winCfg.WindowCursorMode())
		application.AddWindow(h)
	}

	start := time.Now()
	code := application.Exec(ctx)
	logger.Info("exiting", "app", application.Name(), "uptime", time.Since(start).Round(time.Millisecond), "code", code)
	return code
}

// cascadeStep offsets successive windows so they do not stack exactly.
func cascadeStep(backend string) int {
	if backend == config.BackendTerminal {
		return 3
	}
	return 32
}

func runDevices(args []string) int {
	fs := flag.NewFlagSet("devices", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
	backend := fs.String("backend", "", "Backend to query (overrides config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell devices [--path PATH] [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the desktop, displays and input devices a backend supports.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *backend != "" {
		cfg.Backend = *backend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	logger := newLogger(cfg, io.Discard)

	plat, err := newPlatform(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := plat.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	report := describePlatform(cfg.Backend, plat)
	if err := plat.Terminate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Print(report)
	return 0
}

// describePlatform renders what an initialised platform reports.
func describePlatform(name string, plat platform.Platform) string {
	var b []byte
	b = fmt.Appendf(b, "backend: %s\n", name)
	w, h := plat.DesktopSize()
	b = fmt.Appendf(b, "desktop: %dx%d\n", w, h)

	b = fmt.Appendf(b, "devices:\n")
	for _, t := range device.Types {
		b = fmt.Appendf(b, "  %-11s %v\n", t.String()+":", plat.DeviceSupported(t))
	}

	if lister, ok := plat.(platform.DisplayLister); ok {
		displays, err := lister.Displays()
		if err != nil {
			b = fmt.Appendf(b, "displays: error: %v\n", err)
		} else {
			b = fmt.Appendf(b, "displays:\n")
			for _, d := range displays {
				b = fmt.Appendf(b, "  %d %s %dx%d+%d+%d usable %dx%d+%d+%d\n",
					d.ID, d.Name,
					d.Bounds.Width, d.Bounds.Height, d.Bounds.X, d.Bounds.Y,
					d.Usable.Width, d.Usable.Height, d.Usable.X, d.Usable.Y)
			}
		}
	}

	if plat.DeviceSupported(device.TypeGamepad) {
		pads := plat.ConnectedGamepads()
		b = fmt.Appendf(b, "gamepads: %d\n", len(pads))
		for _, p := range pads {
			b = fmt.Appendf(b, "  %d %s\n", p.JID, p.Name)
		}
	}
	return string(b)
}
