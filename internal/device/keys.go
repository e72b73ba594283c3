package device

import (
	"strconv"
	"strings"
)

// Key is a platform-independent key code.
type Key int

const (
	KeyNone Key = iota
	KeyEsc
	KeyReturn
	KeyTab
	KeySpace
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyPrint
	KeyPlus
	KeyMinus
	KeyLeftBracket
	KeyRightBracket
	KeySemicolon
	KeyQuote
	KeyComma
	KeyPeriod
	KeySlash
	KeyBackslash
	KeyTilde
	KeyCapsLock
	KeyNumLock
	KeyMenu
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyNumPad0
	KeyNumPad1
	KeyNumPad2
	KeyNumPad3
	KeyNumPad4
	KeyNumPad5
	KeyNumPad6
	KeyNumPad7
	KeyNumPad8
	KeyNumPad9
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	keyCount
)

var keyNames = [keyCount]string{
	KeyNone: "None", KeyEsc: "Esc", KeyReturn: "Return", KeyTab: "Tab",
	KeySpace: "Space", KeyBackspace: "Backspace", KeyUp: "Up", KeyDown: "Down",
	KeyLeft: "Left", KeyRight: "Right", KeyInsert: "Insert", KeyDelete: "Delete",
	KeyHome: "Home", KeyEnd: "End", KeyPageUp: "PageUp", KeyPageDown: "PageDown",
	KeyPrint: "Print", KeyPlus: "Plus", KeyMinus: "Minus",
	KeyLeftBracket: "LeftBracket", KeyRightBracket: "RightBracket",
	KeySemicolon: "Semicolon", KeyQuote: "Quote", KeyComma: "Comma",
	KeyPeriod: "Period", KeySlash: "Slash", KeyBackslash: "Backslash",
	KeyTilde: "Tilde", KeyCapsLock: "CapsLock", KeyNumLock: "NumLock", KeyMenu: "Menu",
}

func init() {
	for i := 0; i < 12; i++ {
		keyNames[KeyF1+Key(i)] = "F" + strconv.Itoa(i+1)
	}
	for i := 0; i < 10; i++ {
		keyNames[KeyNumPad0+Key(i)] = "NumPad" + strconv.Itoa(i)
		keyNames[Key0+Key(i)] = strconv.Itoa(i)
	}
	for i := 0; i < 26; i++ {
		keyNames[KeyA+Key(i)] = string(rune('A' + i))
	}
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// KeyFromRune maps printable ASCII to a Key. Letters are case-insensitive.
func KeyFromRune(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A')
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0')
	}
	switch r {
	case ' ':
		return KeySpace
	case '+', '=':
		return KeyPlus
	case '-', '_':
		return KeyMinus
	case '[', '{':
		return KeyLeftBracket
	case ']', '}':
		return KeyRightBracket
	case ';', ':':
		return KeySemicolon
	case '\'', '"':
		return KeyQuote
	case ',', '<':
		return KeyComma
	case '.', '>':
		return KeyPeriod
	case '/', '?':
		return KeySlash
	case '\\', '|':
		return KeyBackslash
	case '`', '~':
		return KeyTilde
	case '\t':
		return KeyTab
	case '\r', '\n':
		return KeyReturn
	}
	return KeyNone
}

// Modifier is a bitset of held modifier keys.
type Modifier uint8

const (
	ModLeftAlt    Modifier = 0x01
	ModRightAlt   Modifier = 0x02
	ModLeftCtrl   Modifier = 0x04
	ModRightCtrl  Modifier = 0x08
	ModLeftShift  Modifier = 0x10
	ModRightShift Modifier = 0x20
	ModLeftMeta   Modifier = 0x40
	ModRightMeta  Modifier = 0x80

	ModAlt   = ModLeftAlt | ModRightAlt
	ModCtrl  = ModLeftCtrl | ModRightCtrl
	ModShift = ModLeftShift | ModRightShift
	ModMeta  = ModLeftMeta | ModRightMeta
)

// Has reports whether any bit of m2 is set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 != 0 }

func (m Modifier) String() string {
	if m == 0 {
		return "none"
	}
	names := []struct {
		bit  Modifier
		name string
	}{
		{ModLeftAlt, "lalt"}, {ModRightAlt, "ralt"},
		{ModLeftCtrl, "lctrl"}, {ModRightCtrl, "rctrl"},
		{ModLeftShift, "lshift"}, {ModRightShift, "rshift"},
		{ModLeftMeta, "lmeta"}, {ModRightMeta, "rmeta"},
	}
	var parts []string
	for _, n := range names {
		if m&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// KeyAction is what happened to a key or button.
type KeyAction int

const (
	ActionRelease KeyAction = iota
	ActionPress
	ActionRepeat
)

func (a KeyAction) String() string {
	switch a {
	case ActionRelease:
		return "release"
	case ActionPress:
		return "press"
	case ActionRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonMiddle:
		return "middle"
	case MouseButtonRight:
		return "right"
	default:
		return "none"
	}
}
