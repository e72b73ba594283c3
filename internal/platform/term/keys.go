package term

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/winshell/internal/device"
)

var tcellKeys = map[tcell.Key]device.Key{
	tcell.KeyEscape:     device.KeyEsc,
	tcell.KeyEnter:      device.KeyReturn,
	tcell.KeyTab:        device.KeyTab,
	tcell.KeyBacktab:    device.KeyTab,
	tcell.KeyBackspace:  device.KeyBackspace,
	tcell.KeyBackspace2: device.KeyBackspace,
	tcell.KeyUp:         device.KeyUp,
	tcell.KeyDown:       device.KeyDown,
	tcell.KeyLeft:       device.KeyLeft,
	tcell.KeyRight:      device.KeyRight,
	tcell.KeyInsert:     device.KeyInsert,
	tcell.KeyDelete:     device.KeyDelete,
	tcell.KeyHome:       device.KeyHome,
	tcell.KeyEnd:        device.KeyEnd,
	tcell.KeyPgUp:       device.KeyPageUp,
	tcell.KeyPgDn:       device.KeyPageDown,
	tcell.KeyPrint:      device.KeyPrint,
}

func init() {
	for i := 0; i < 12; i++ {
		tcellKeys[tcell.KeyF1+tcell.Key(i)] = device.KeyF1 + device.Key(i)
	}
}

var buttonMap = []struct {
	mask   tcell.ButtonMask
	button device.MouseButton
}{
	{tcell.Button1, device.MouseButtonLeft},
	{tcell.Button2, device.MouseButtonMiddle},
	{tcell.Button3, device.MouseButtonRight},
}

// Terminals do not say which side a modifier was on; the left one is used.
func translateMods(m tcell.ModMask) device.Modifier {
	var mods device.Modifier
	if m&tcell.ModShift != 0 {
		mods |= device.ModLeftShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= device.ModLeftCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= device.ModLeftAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= device.ModLeftMeta
	}
	return mods
}

// translateKey maps a terminal key event to a key, its modifiers and the
// text it types. Control characters are reported as ctrl plus the letter.
func translateKey(ev *tcell.EventKey) (device.Key, device.Modifier, string) {
	mods := translateMods(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		r := ev.Rune()
		if unicode.IsUpper(r) {
			mods |= device.ModLeftShift
		}
		var text string
		if mods&(device.ModLeftCtrl|device.ModLeftAlt|device.ModLeftMeta) == 0 && unicode.IsPrint(r) {
			text = string(r)
		}
		return device.KeyFromRune(r), mods, text
	}
	if key, ok := tcellKeys[k]; ok {
		return key, mods, ""
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return device.KeyFromRune(rune('a' + (k - tcell.KeyCtrlA))), mods | device.ModLeftCtrl, ""
	}
	return device.KeyNone, mods, ""
}

// wheelDelta maps wheel buttons to scroll offsets.
func wheelDelta(b tcell.ButtonMask) (float64, float64) {
	var dx, dy float64
	if b&tcell.WheelUp != 0 {
		dy++
	}
	if b&tcell.WheelDown != 0 {
		dy--
	}
	if b&tcell.WheelLeft != 0 {
		dx++
	}
	if b&tcell.WheelRight != 0 {
		dx--
	}
	return dx, dy
}
