package device

const (
	SubKeyKey = iota
)

// KeyPayload is a key transition on a keyboard.
type KeyPayload struct {
	Key    Key
	Mods   Modifier
	Action KeyAction
}

func (KeyPayload) SubKey() int { return SubKeyKey }

// KeyFunc receives a key together with the modifiers held at the time.
type KeyFunc func(key Key, mods Modifier)

// Keyboard delivers key events addressed to one window. Repeats are
// reported as presses.
type Keyboard struct {
	*BaseHandler
	onPress   KeyFunc
	onRelease KeyFunc
}

// NewKeyboard creates and registers a keyboard handler for windowID.
func NewKeyboard(d *Driver, windowID uint32) *Keyboard {
	k := &Keyboard{}
	k.BaseHandler = NewHandler(d, TypeKeyboard, windowID, k.decode)
	return k
}

func (k *Keyboard) SetPressCallback(fn KeyFunc)   { k.onPress = fn }
func (k *Keyboard) SetReleaseCallback(fn KeyFunc) { k.onRelease = fn }

func (k *Keyboard) decode(p Payload) {
	switch p := p.(type) {
	case KeyPayload:
		if p.Action == ActionRelease {
			if k.onRelease != nil {
				k.onRelease(p.Key, p.Mods)
			}
			return
		}
		if k.onPress != nil {
			k.onPress(p.Key, p.Mods)
		}
	}
}

// KeyboardDriver is the producer side for keyboard input.
type KeyboardDriver struct {
	d *Driver
}

func (k KeyboardDriver) PostKeyEvent(windowID uint32, key Key, mods Modifier, action KeyAction) {
	if k.d == nil {
		return
	}
	k.d.Post(Event{Type: TypeKeyboard, ID: windowID, Payload: KeyPayload{Key: key, Mods: mods, Action: action}})
}
