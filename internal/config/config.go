package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winshell/internal/window"
)

const (
	// EnvBackend overrides the configured backend.
	EnvBackend = "WINSHELL_BACKEND"

	DefaultAppName       = "winshell"
	DefaultBuiltinPreset = "default"
	DefaultFrameInterval = 16 * time.Millisecond
)

// Backend names accepted in the backend field.
const (
	BackendX11      = "x11"
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

// ErrUnknownBackend is wrapped by validation errors for the backend field.
var ErrUnknownBackend = errors.New("unknown backend")

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendX11, BackendTerminal, BackendHeadless}
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WindowConfig describes the initial attributes of a window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	X          int    `yaml:"x"`
	Y          int    `yaml:"y"`
	State      string `yaml:"state"`
	Border     bool   `yaml:"border"`
	Resizable  bool   `yaml:"resizable"`
	CursorMode string `yaml:"cursor_mode"`
}

// Flags returns the window flags for the border and resizable settings.
func (w WindowConfig) Flags() window.Flags {
	var f window.Flags
	if w.Border {
		f |= window.FlagShowBorder
	}
	if w.Resizable {
		f |= window.FlagResizable
	}
	return f
}

// WindowState parses the state field.
func (w WindowConfig) WindowState() window.State {
	s, err := window.ParseState(w.State)
	if err != nil {
		return window.StateNormal
	}
	return s
}

// WindowCursorMode parses the cursor_mode field.
func (w WindowConfig) WindowCursorMode() window.CursorMode {
	m, err := window.ParseCursorMode(w.CursorMode)
	if err != nil {
		return window.CursorNormal
	}
	return m
}

// Config is the effective configuration after defaults, includes and presets
// have been applied.
type Config struct {
	AppName       string                  `yaml:"app_name"`
	Backend       string                  `yaml:"backend"`
	Display       string                  `yaml:"display"`
	FrameInterval time.Duration           `yaml:"frame_interval"`
	Logging       LoggingConfig           `yaml:"logging"`
	Window        WindowConfig            `yaml:"window"`
	Presets       map[string]WindowConfig `yaml:"presets"`
}

func DefaultConfig() *Config {
	return &Config{
		AppName:       DefaultAppName,
		Backend:       BackendX11,
		FrameInterval: DefaultFrameInterval,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Window:  BuiltinPresets()[DefaultBuiltinPreset],
		Presets: BuiltinPresets(),
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winshell", "config.yaml"), nil
}

// ResolveDisplay returns the configured X display, falling back to $DISPLAY.
func (c *Config) ResolveDisplay() string {
	if c != nil && strings.TrimSpace(c.Display) != "" {
		return c.Display
	}
	return os.Getenv("DISPLAY")
}

// LogLevel maps logging.level to a slog level.
func (c *Config) LogLevel() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Preset returns the named window preset.
func (c *Config) Preset(name string) (WindowConfig, error) {
	if c == nil {
		return WindowConfig{}, fmt.Errorf("no config loaded")
	}
	p, ok := c.Presets[name]
	if !ok {
		return WindowConfig{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.AppName) == "" {
		return &ValidationError{Path: "app_name", Err: fmt.Errorf("app_name must not be empty")}
	}
	if err := validateBackend(c.Backend); err != nil {
		return &ValidationError{Path: "backend", Err: err}
	}
	if c.FrameInterval < 0 {
		return &ValidationError{Path: "frame_interval", Err: fmt.Errorf("frame_interval must be >= 0")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("logging.format must be one of: text, json")}
	}
	if err := validateWindow(c.Window); err != nil {
		return &ValidationError{Path: "window." + err.field, Err: err.err}
	}
	for _, name := range sortedKeys(c.Presets) {
		if err := validateWindow(c.Presets[name]); err != nil {
			return &ValidationError{Path: "presets." + name + "." + err.field, Err: err.err}
		}
	}
	return nil
}

func validateBackend(name string) error {
	for _, b := range Backends() {
		if name == b {
			return nil
		}
	}
	return fmt.Errorf("%w %q (expected one of: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
}

type fieldError struct {
	field string
	err   error
}

func validateWindow(w WindowConfig) *fieldError {
	if w.Width <= 0 {
		return &fieldError{"width", fmt.Errorf("width must be > 0")}
	}
	if w.Height <= 0 {
		return &fieldError{"height", fmt.Errorf("height must be > 0")}
	}
	if _, err := window.ParseState(w.State); err != nil {
		return &fieldError{"state", err}
	}
	if _, err := window.ParseCursorMode(w.CursorMode); err != nil {
		return &fieldError{"cursor_mode", err}
	}
	return nil
}
