package config

// BuiltinPresets returns the built-in window presets.
//
// These are always available without being defined in YAML. User presets
// and the window section may inherit from them with "builtin:<name>".
func BuiltinPresets() map[string]WindowConfig {
	return map[string]WindowConfig{
		"default": {
			Title:     DefaultAppName,
			Width:     1280,
			Height:    720,
			State:     "normal",
			Border:    true,
			Resizable: true,
		},
		"compact": {
			Title:     DefaultAppName,
			Width:     640,
			Height:    480,
			State:     "normal",
			Border:    true,
			Resizable: false,
		},
		"maximized": {
			Title:     DefaultAppName,
			Width:     1280,
			Height:    720,
			State:     "maximized",
			Border:    true,
			Resizable: true,
		},
		"fullscreen": {
			Title:  DefaultAppName,
			Width:  1280,
			Height: 720,
			State:  "fullscreen",
		},
		"capture": {
			Title:      DefaultAppName,
			Width:      1280,
			Height:     720,
			State:      "normal",
			Border:     true,
			Resizable:  true,
			CursorMode: "disabled",
		},
	}
}
