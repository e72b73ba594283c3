package device

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeyboard_FiltersByWindowID(t *testing.T) {
	d := NewDriver()
	in := NewInputs(d)

	var got []string
	k1 := NewKeyboard(d, 1)
	k1.SetPressCallback(func(key Key, mods Modifier) { got = append(got, "1:"+key.String()) })
	k2 := NewKeyboard(d, 2)
	k2.SetPressCallback(func(key Key, mods Modifier) { got = append(got, "2:"+key.String()) })

	in.Keyboard.PostKeyEvent(2, KeyA, 0, ActionPress)
	in.Keyboard.PostKeyEvent(1, KeyB, 0, ActionPress)
	in.Keyboard.PostKeyEvent(3, KeyC, 0, ActionPress)
	d.ProcessEvents()

	want := []string{"2:A", "1:B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("delivery mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyboard_RepeatIsPressAndReleaseSeparate(t *testing.T) {
	d := NewDriver()
	in := NewInputs(d)
	k := NewKeyboard(d, 7)

	var got []string
	k.SetPressCallback(func(key Key, mods Modifier) { got = append(got, "press:"+key.String()+":"+mods.String()) })
	k.SetReleaseCallback(func(key Key, mods Modifier) { got = append(got, "release:"+key.String()) })

	in.Keyboard.PostKeyEvent(7, KeyEsc, ModLeftCtrl, ActionPress)
	in.Keyboard.PostKeyEvent(7, KeyEsc, ModLeftCtrl, ActionRepeat)
	in.Keyboard.PostKeyEvent(7, KeyEsc, 0, ActionRelease)
	d.ProcessEvents()

	want := []string{"press:Esc:lctrl", "press:Esc:lctrl", "release:Esc"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("callbacks mismatch (-want +got):\n%s", diff)
	}
}

func TestMouse_ReleaseWithoutCallbackDoesNotPress(t *testing.T) {
	d := NewDriver()
	in := NewInputs(d)
	m := NewMouse(d, 1)

	presses := 0
	m.SetPressCallback(func(MouseButton) { presses++ })

	in.Mouse.PostMouseButton(1, MouseButtonLeft, ActionRelease)
	d.ProcessEvents()

	if presses != 0 {
		t.Fatalf("expected release to be ignored without a release callback, got %d presses", presses)
	}
}

func TestMouse_DecodesAllPayloads(t *testing.T) {
	d := NewDriver()
	in := NewInputs(d)
	m := NewMouse(d, 4)

	var moves [][2]int
	var buttons []MouseButton
	var scrolls [][2]float64
	m.SetMoveCallback(func(x, y int) { moves = append(moves, [2]int{x, y}) })
	m.SetPressCallback(func(b MouseButton) { buttons = append(buttons, b) })
	m.SetScrollCallback(func(dx, dy float64) { scrolls = append(scrolls, [2]float64{dx, dy}) })

	in.Mouse.PostMouseMove(4, 10, 20)
	in.Mouse.PostMouseButton(4, MouseButtonRight, ActionPress)
	in.Mouse.PostMouseScroll(4, 0, -1)
	d.ProcessEvents()

	if diff := cmp.Diff([][2]int{{10, 20}}, moves); diff != "" {
		t.Fatalf("moves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]MouseButton{MouseButtonRight}, buttons); diff != "" {
		t.Fatalf("buttons mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]float64{{0, -1}}, scrolls); diff != "" {
		t.Fatalf("scrolls mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseHandler_IgnoresMismatchedPayload(t *testing.T) {
	d := NewDriver()
	k := NewKeyboard(d, 1)
	calls := 0
	k.SetPressCallback(func(Key, Modifier) { calls++ })

	// Right category and id, wrong payload kind.
	d.Post(Event{Type: TypeKeyboard, ID: 1, Payload: MouseMovePayload{X: 1}})
	d.Post(Event{Type: TypeKeyboard, ID: 1})
	d.ProcessEvents()

	if calls != 0 {
		t.Fatalf("expected mismatched payloads to be ignored, got %d calls", calls)
	}
}

func TestHandlerClose_Unregisters(t *testing.T) {
	d := NewDriver()
	in := NewInputs(d)
	c := NewCharInput(d, 3)
	var got []string
	c.SetInputCallback(func(s string) { got = append(got, s) })

	if n := d.Subscribers(TypeCharInput); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}
	in.CharInput.PostCharInput(3, "é")
	d.ProcessEvents()

	c.Close()
	c.Close()
	in.CharInput.PostCharInput(3, "x")
	d.ProcessEvents()

	if diff := cmp.Diff([]string{"é"}, got); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
	if n := d.Subscribers(TypeCharInput); n != 0 {
		t.Fatalf("expected no subscribers after close, got %d", n)
	}
}

type fakeLister []GamepadStateInfo

func (f fakeLister) ConnectedGamepads() []GamepadStateInfo { return f }

func TestGamepad_StateAndSlotCallbacks(t *testing.T) {
	d := NewDriver()
	in := NewInputs(d)
	g := NewGamepad(d, fakeLister{{JID: 0, Name: "pad"}})

	var states []GamepadStateInfo
	var updates []uint32
	g.SetStateCallback(func(info GamepadStateInfo) { states = append(states, info) })
	g.SetUpdateCallback(1, func(jid uint32, info GamepadInfo) { updates = append(updates, jid) })

	in.Gamepad.PostGamepadState(GamepadStateInfo{JID: 1, Name: "pad", Action: GamepadConnected})
	in.Gamepad.PostGamepadUpdate(1, GamepadInfo{})
	in.Gamepad.PostGamepadUpdate(2, GamepadInfo{})
	d.ProcessEvents()

	g.SetUpdateCallback(1, nil)
	in.Gamepad.PostGamepadUpdate(1, GamepadInfo{})
	d.ProcessEvents()

	if len(states) != 1 || states[0].JID != 1 || states[0].Action != GamepadConnected {
		t.Fatalf("unexpected states: %#v", states)
	}
	if diff := cmp.Diff([]uint32{1}, updates); diff != "" {
		t.Fatalf("updates mismatch (-want +got):\n%s", diff)
	}
	if got := g.Connected(); len(got) != 1 || got[0].Name != "pad" {
		t.Fatalf("unexpected connected pads: %#v", got)
	}
}

func TestKeyFromRune(t *testing.T) {
	tests := []struct {
		in   rune
		want Key
	}{
		{'a', KeyA},
		{'Z', KeyZ},
		{'5', Key5},
		{' ', KeySpace},
		{'?', KeySlash},
		{'€', KeyNone},
	}
	for _, tt := range tests {
		if got := KeyFromRune(tt.in); got != tt.want {
			t.Fatalf("KeyFromRune(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyString(t *testing.T) {
	if KeyF12.String() != "F12" || KeyNumPad3.String() != "NumPad3" || Key0.String() != "0" {
		t.Fatalf("unexpected key names: %s %s %s", KeyF12, KeyNumPad3, Key0)
	}
}
