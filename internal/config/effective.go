package config

import (
	"fmt"
	"sort"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults. The returned map
// records, for "window" and each "presets.<name>", the builtin preset it was
// based on.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.AppName != nil {
		cfg.AppName = *raw.AppName
	}
	if raw.Backend != nil {
		cfg.Backend = strings.ToLower(strings.TrimSpace(*raw.Backend))
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.FrameInterval != nil {
		cfg.FrameInterval = *raw.FrameInterval
	}
	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = strings.ToLower(*raw.Logging.Level)
		}
		if raw.Logging.Format != nil {
			cfg.Logging.Format = strings.ToLower(*raw.Logging.Format)
		}
	}

	bases, err := applyPresets(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	windowBase := DefaultBuiltinPreset
	cfg.Window = cfg.Presets[DefaultBuiltinPreset]
	if raw.Window != nil {
		name, base, err := selectWindowBase(*raw.Window, cfg.Presets)
		if err != nil {
			return nil, nil, err
		}
		windowBase = name
		if b, ok := bases["presets."+name]; ok {
			windowBase = b
		}
		cfg.Window = mergeWindowPatch(base, *raw.Window)
	}
	bases["window"] = windowBase

	return cfg, bases, nil
}

func applyPresets(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinPresets()

	cfg.Presets = make(map[string]WindowConfig, len(builtin)+len(raw.Presets))
	bases := make(map[string]string)
	for name, preset := range builtin {
		cfg.Presets[name] = preset
		bases["presets."+name] = name
	}

	for _, name := range sortedKeys(raw.Presets) {
		patch := raw.Presets[name]
		baseName, base, err := selectPresetBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}
		cfg.Presets[name] = mergeWindowPatch(base, patch)
		bases["presets."+name] = baseName
	}
	return bases, nil
}

func selectPresetBase(name string, patch RawWindow, builtin map[string]WindowConfig) (string, WindowConfig, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinPreset
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", WindowConfig{}, &ValidationError{
				Path: "presets." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	base, ok := builtin[baseName]
	if !ok {
		return "", WindowConfig{}, &ValidationError{
			Path: "presets." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin preset %q", baseName),
		}
	}
	return baseName, base, nil
}

// selectWindowBase resolves window.inherits against the effective presets.
// Both "builtin:<name>" and plain preset names are accepted.
func selectWindowBase(patch RawWindow, presets map[string]WindowConfig) (string, WindowConfig, error) {
	name := DefaultBuiltinPreset
	if patch.Inherits != nil {
		ref := strings.TrimSpace(*patch.Inherits)
		ref = strings.TrimPrefix(ref, "builtin:")
		if ref != "" {
			name = strings.TrimSpace(ref)
		}
	}
	base, ok := presets[name]
	if !ok {
		return "", WindowConfig{}, &ValidationError{
			Path: "window.inherits",
			Err:  fmt.Errorf("unknown preset %q", name),
		}
	}
	return name, base, nil
}

func mergeWindowPatch(base WindowConfig, patch RawWindow) WindowConfig {
	out := base
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	out.Width = derefInt(patch.Width, out.Width)
	out.Height = derefInt(patch.Height, out.Height)
	out.X = derefInt(patch.X, out.X)
	out.Y = derefInt(patch.Y, out.Y)
	if patch.State != nil {
		out.State = strings.ToLower(*patch.State)
	}
	if patch.Border != nil {
		out.Border = *patch.Border
	}
	if patch.Resizable != nil {
		out.Resizable = *patch.Resizable
	}
	if patch.CursorMode != nil {
		out.CursorMode = strings.ToLower(*patch.CursorMode)
	}
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
