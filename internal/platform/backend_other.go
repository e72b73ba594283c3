//go:build !linux

package platform

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/1broseidon/winshell/internal/device"
)

// LinuxPlatform is unavailable on this OS; Init always fails.
type LinuxPlatform struct{}

func NewX11(display, class string, logger *slog.Logger) *LinuxPlatform {
	return &LinuxPlatform{}
}

func (p *LinuxPlatform) Init() error {
	return fmt.Errorf("%w: x11 backend not supported on %s", ErrNoDisplay, runtime.GOOS)
}

func (p *LinuxPlatform) Terminate() error                             { return nil }
func (p *LinuxPlatform) NewWindow() NativeWindow                      { return nil }
func (p *LinuxPlatform) DeviceSupported(device.Type) bool             { return false }
func (p *LinuxPlatform) ConnectedGamepads() []device.GamepadStateInfo { return nil }
func (p *LinuxPlatform) DesktopSize() (int, int)                      { return 0, 0 }
