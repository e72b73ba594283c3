package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawLoggingConfig struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

type RawWindow struct {
	Inherits   *string `yaml:"inherits"`
	Title      *string `yaml:"title"`
	Width      *int    `yaml:"width"`
	Height     *int    `yaml:"height"`
	X          *int    `yaml:"x"`
	Y          *int    `yaml:"y"`
	State      *string `yaml:"state"`
	Border     *bool   `yaml:"border"`
	Resizable  *bool   `yaml:"resizable"`
	CursorMode *string `yaml:"cursor_mode"`
}

type RawConfig struct {
	Include       IncludeList          `yaml:"include"`
	AppName       *string              `yaml:"app_name"`
	Backend       *string              `yaml:"backend"`
	Display       *string              `yaml:"display"`
	FrameInterval *time.Duration       `yaml:"frame_interval"`
	Logging       *RawLoggingConfig    `yaml:"logging"`
	Window        *RawWindow           `yaml:"window"`
	Presets       map[string]RawWindow `yaml:"presets"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.AppName != nil {
		out.AppName = overlay.AppName
	}
	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.FrameInterval != nil {
		out.FrameInterval = overlay.FrameInterval
	}

	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		if overlay.Logging.Level != nil {
			out.Logging.Level = overlay.Logging.Level
		}
		if overlay.Logging.Format != nil {
			out.Logging.Format = overlay.Logging.Format
		}
	}

	if overlay.Window != nil {
		if out.Window == nil {
			out.Window = &RawWindow{}
		}
		merged := mergeRawWindow(*out.Window, *overlay.Window)
		out.Window = &merged
	}

	if overlay.Presets != nil {
		presets := make(map[string]RawWindow, len(out.Presets)+len(overlay.Presets))
		for name, p := range out.Presets {
			presets[name] = p
		}
		for name, p := range overlay.Presets {
			base, ok := presets[name]
			if !ok {
				presets[name] = p
				continue
			}
			presets[name] = mergeRawWindow(base, p)
		}
		out.Presets = presets
	}

	return out
}

func mergeRawWindow(base RawWindow, overlay RawWindow) RawWindow {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.X != nil {
		out.X = overlay.X
	}
	if overlay.Y != nil {
		out.Y = overlay.Y
	}
	if overlay.State != nil {
		out.State = overlay.State
	}
	if overlay.Border != nil {
		out.Border = overlay.Border
	}
	if overlay.Resizable != nil {
		out.Resizable = overlay.Resizable
	}
	if overlay.CursorMode != nil {
		out.CursorMode = overlay.CursorMode
	}
	return out
}
