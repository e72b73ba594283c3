package x11

import (
	"strconv"
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/winshell/internal/device"
)

var keysymKeys = map[string]device.Key{
	"Escape":       device.KeyEsc,
	"Return":       device.KeyReturn,
	"KP_Enter":     device.KeyReturn,
	"Tab":          device.KeyTab,
	"ISO_Left_Tab": device.KeyTab,
	"space":        device.KeySpace,
	"BackSpace":    device.KeyBackspace,
	"Up":           device.KeyUp,
	"Down":         device.KeyDown,
	"Left":         device.KeyLeft,
	"Right":        device.KeyRight,
	"Insert":       device.KeyInsert,
	"Delete":       device.KeyDelete,
	"Home":         device.KeyHome,
	"End":          device.KeyEnd,
	"Prior":        device.KeyPageUp,
	"Next":         device.KeyPageDown,
	"Print":        device.KeyPrint,
	"plus":         device.KeyPlus,
	"equal":        device.KeyPlus,
	"KP_Add":       device.KeyPlus,
	"minus":        device.KeyMinus,
	"KP_Subtract":  device.KeyMinus,
	"bracketleft":  device.KeyLeftBracket,
	"bracketright": device.KeyRightBracket,
	"semicolon":    device.KeySemicolon,
	"apostrophe":   device.KeyQuote,
	"comma":        device.KeyComma,
	"period":       device.KeyPeriod,
	"slash":        device.KeySlash,
	"backslash":    device.KeyBackslash,
	"grave":        device.KeyTilde,
	"Caps_Lock":    device.KeyCapsLock,
	"Num_Lock":     device.KeyNumLock,
	"Menu":         device.KeyMenu,
}

var keysymMods = map[string]device.Modifier{
	"Shift_L":   device.ModLeftShift,
	"Shift_R":   device.ModRightShift,
	"Control_L": device.ModLeftCtrl,
	"Control_R": device.ModRightCtrl,
	"Alt_L":     device.ModLeftAlt,
	"Alt_R":     device.ModRightAlt,
	"Meta_L":    device.ModLeftMeta,
	"Meta_R":    device.ModRightMeta,
	"Super_L":   device.ModLeftMeta,
	"Super_R":   device.ModRightMeta,
}

var keysymText = map[string]string{
	"space": " ", "exclam": "!", "quotedbl": "\"", "numbersign": "#",
	"dollar": "$", "percent": "%", "ampersand": "&", "apostrophe": "'",
	"parenleft": "(", "parenright": ")", "asterisk": "*", "plus": "+",
	"comma": ",", "minus": "-", "period": ".", "slash": "/", "colon": ":",
	"semicolon": ";", "less": "<", "equal": "=", "greater": ">",
	"question": "?", "at": "@", "bracketleft": "[", "backslash": "\\",
	"bracketright": "]", "asciicircum": "^", "underscore": "_", "grave": "`",
	"braceleft": "{", "bar": "|", "braceright": "}", "asciitilde": "~",
}

func init() {
	for i := 0; i < 12; i++ {
		keysymKeys["F"+strconv.Itoa(i+1)] = device.KeyF1 + device.Key(i)
	}
	for i := 0; i < 10; i++ {
		keysymKeys["KP_"+strconv.Itoa(i)] = device.KeyNumPad0 + device.Key(i)
	}
}

// KeysymName returns the keysym name for keycode under the X modifier state.
func (c *Connection) KeysymName(keycode xproto.Keycode, state uint16) string {
	return keybind.LookupString(c.XUtil, state, keycode)
}

// KeyFromKeysym maps a keysym name to a key. Single printable characters
// map through device.KeyFromRune.
func KeyFromKeysym(name string) device.Key {
	if k, ok := keysymKeys[name]; ok {
		return k
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return device.KeyFromRune(r)
	}
	if text, ok := keysymText[name]; ok {
		r, _ := utf8.DecodeRuneInString(text)
		return device.KeyFromRune(r)
	}
	return device.KeyNone
}

// ModifierFromKeysym returns the modifier bit a modifier key controls, or
// zero for ordinary keys.
func ModifierFromKeysym(name string) device.Modifier {
	return keysymMods[name]
}

// TextFromKeysym returns the text a key press produces, or "" for
// non-printing keys.
func TextFromKeysym(name string) string {
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if r >= 0x20 && r != 0x7f {
			return name
		}
		return ""
	}
	return keysymText[name]
}
