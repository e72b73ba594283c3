package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/winshell/internal/app"
	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/device"
	"github.com/1broseidon/winshell/internal/platform/headless"
	"github.com/1broseidon/winshell/internal/window"
)

func TestNewPlatform_UnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = "wayland"
	_, err := newPlatform(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, config.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	newLogger(cfg, &buf).Debug("hello", "k", 1)
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected JSON debug line, got %q", buf.String())
	}
}

func TestDescribePlatform_Headless(t *testing.T) {
	plat := headless.New(headless.WithDesktopSize(800, 600), headless.WithGamepads(device.GamepadStateInfo{JID: 2, Name: "pad"}))
	if err := plat.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	got := describePlatform("headless", plat)

	for _, want := range []string{
		"backend: headless\n",
		"desktop: 800x600\n",
		"  keyboard:   true\n",
		"  0 headless 800x600+0+0 usable 800x600+0+0\n",
		"gamepads: 1\n",
		"  2 pad\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected report to contain %q, got:\n%s", want, got)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}, "file:/a.yaml:3:5"},
		{config.Source{Kind: config.SourceBuiltin, Name: "compact"}, "builtin:compact"},
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceEnv, Name: config.EnvBackend}, "env:" + config.EnvBackend},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestDemoWindow_EscCloses(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	plat := headless.New(headless.WithLogger(logger))
	application, err := app.NewApplication("test", app.ContextConfig{Platform: plat, Logger: logger})
	if err != nil {
		t.Fatalf("NewApplication failed: %v", err)
	}

	demo := newDemoWindow(logger)
	h := app.NewWindow(demo, "demo", window.DefaultFlags)
	application.AddWindow(h)
	application.Context().Defer(func() {
		native := plat.Window(h.ID())
		if native == nil {
			t.Errorf("expected native window for %d", h.ID())
			return
		}
		native.Inject(func() {
			native.Type("x")
			native.KeyPress(device.KeyF, 0)
			native.KeyPress(device.KeyEsc, 0)
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if code := application.Exec(ctx); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if ctx.Err() != nil {
		t.Fatalf("expected Esc to close the window before the timeout")
	}
	if demo.text != nil {
		t.Fatalf("expected char input handler released on destroy")
	}

	var sawFullscreen bool
	for _, c := range plat.CallsFor(h.ID()) {
		if c.Op == "SetWindowState" && c.Args[0] == window.StateFullScreen {
			sawFullscreen = true
		}
	}
	if !sawFullscreen {
		t.Fatalf("expected F to request fullscreen, calls: %v", plat.CallsFor(h.ID()))
	}
}

func TestRunConfigPrint_DefaultsAndEffectiveConflict(t *testing.T) {
	if code := runConfig([]string{"print", "--defaults", "--effective"}); code != 2 {
		t.Fatalf("expected usage error code 2, got %d", code)
	}
}
