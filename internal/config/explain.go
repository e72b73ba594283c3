package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	app_name
//	backend
//	display
//	frame_interval
//	logging.level
//	logging.format
//	window
//	window.width
//	presets.<name>
//	presets.<name>.state
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise window fields come from their base preset.
	if prefix := presetPrefix(path); prefix != "" {
		if base, ok := res.Bases[prefix]; ok {
			return value, Source{Kind: SourceBuiltin, Name: base}, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func presetPrefix(path string) string {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "window":
		return "window"
	case "presets":
		if len(parts) >= 2 {
			return "presets." + parts[1]
		}
	}
	return ""
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "app_name":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.AppName, nil
	case "backend":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.Backend, nil
	case "display":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.Display, nil
	case "frame_interval":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.FrameInterval, nil
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "level":
			return cfg.Logging.Level, nil
		case "format":
			return cfg.Logging.Format, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "window":
		return lookupWindow(cfg.Window, parts[1:], path)
	case "presets":
		if len(parts) == 1 {
			return cfg.Presets, nil
		}
		name := parts[1]
		preset, ok := cfg.Presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		return lookupWindow(preset, parts[2:], path)
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func lookupWindow(w WindowConfig, parts []string, path string) (any, error) {
	if len(parts) == 0 {
		return w, nil
	}
	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[0] {
	case "title":
		return w.Title, nil
	case "width":
		return w.Width, nil
	case "height":
		return w.Height, nil
	case "x":
		return w.X, nil
	case "y":
		return w.Y, nil
	case "state":
		return w.State, nil
	case "border":
		return w.Border, nil
	case "resizable":
		return w.Resizable, nil
	case "cursor_mode":
		return w.CursorMode, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
