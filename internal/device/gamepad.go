package device

const (
	SubKeyGamepadState = iota
	SubKeyGamepadUpdate
)

// GamepadButton indexes GamepadInfo.Buttons.
type GamepadButton int

const (
	GamepadA GamepadButton = iota
	GamepadB
	GamepadX
	GamepadY
	GamepadLeftBumper
	GamepadRightBumper
	GamepadLeftThumb
	GamepadRightThumb
	GamepadUp
	GamepadDown
	GamepadLeft
	GamepadRight
	GamepadBack
	GamepadStart
	GamepadGuide

	GamepadButtonCount
)

// GamepadAxis indexes GamepadInfo.Axes.
type GamepadAxis int

const (
	AxisLeftX GamepadAxis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisLeftTrigger
	AxisRightTrigger

	GamepadAxisCount
)

// GamepadAction is a connection state transition.
type GamepadAction int

const (
	GamepadConnected GamepadAction = iota
	GamepadDisconnected
)

func (a GamepadAction) String() string {
	if a == GamepadConnected {
		return "connected"
	}
	return "disconnected"
}

// GamepadStateInfo describes a connect or disconnect of the pad in slot JID.
type GamepadStateInfo struct {
	JID    uint32
	Name   string
	Action GamepadAction
}

// GamepadInfo is a snapshot of all buttons and axes. Axes are in [-1, 1].
type GamepadInfo struct {
	Buttons [GamepadButtonCount]KeyAction
	Axes    [GamepadAxisCount]float32
}

type GamepadStatePayload struct {
	Info GamepadStateInfo
}

type GamepadUpdatePayload struct {
	JID  uint32
	Info GamepadInfo
}

func (GamepadStatePayload) SubKey() int  { return SubKeyGamepadState }
func (GamepadUpdatePayload) SubKey() int { return SubKeyGamepadUpdate }

// GamepadLister reports the pads currently connected.
type GamepadLister interface {
	ConnectedGamepads() []GamepadStateInfo
}

// Gamepad receives gamepad events. It is not bound to a window: it always
// listens on GamepadDeviceID.
type Gamepad struct {
	*BaseHandler
	lister   GamepadLister
	onState  func(GamepadStateInfo)
	onUpdate map[uint32]func(jid uint32, info GamepadInfo)
}

// NewGamepad creates and registers a gamepad handler. lister may be nil.
func NewGamepad(d *Driver, lister GamepadLister) *Gamepad {
	g := &Gamepad{
		lister:   lister,
		onUpdate: make(map[uint32]func(uint32, GamepadInfo)),
	}
	g.BaseHandler = NewHandler(d, TypeGamepad, GamepadDeviceID, g.decode)
	return g
}

func (g *Gamepad) SetStateCallback(fn func(GamepadStateInfo)) { g.onState = fn }

// SetUpdateCallback installs fn for the pad in slot jid, replacing any
// previous one. A nil fn removes the slot's callback.
func (g *Gamepad) SetUpdateCallback(jid uint32, fn func(jid uint32, info GamepadInfo)) {
	if fn == nil {
		delete(g.onUpdate, jid)
		return
	}
	g.onUpdate[jid] = fn
}

// Connected returns the pads the platform currently reports.
func (g *Gamepad) Connected() []GamepadStateInfo {
	if g.lister == nil {
		return nil
	}
	return g.lister.ConnectedGamepads()
}

func (g *Gamepad) decode(p Payload) {
	switch p := p.(type) {
	case GamepadStatePayload:
		if g.onState != nil {
			g.onState(p.Info)
		}
	case GamepadUpdatePayload:
		if fn, ok := g.onUpdate[p.JID]; ok {
			fn(p.JID, p.Info)
		}
	}
}

// GamepadDriver is the producer side for gamepad input.
type GamepadDriver struct {
	d *Driver
}

func (g GamepadDriver) PostGamepadState(info GamepadStateInfo) {
	g.post(GamepadStatePayload{Info: info})
}

func (g GamepadDriver) PostGamepadUpdate(jid uint32, info GamepadInfo) {
	g.post(GamepadUpdatePayload{JID: jid, Info: info})
}

func (g GamepadDriver) post(p Payload) {
	if g.d == nil {
		return
	}
	g.d.Post(Event{Type: TypeGamepad, ID: GamepadDeviceID, Payload: p})
}

// Inputs bundles one producer per device category. Backends receive it when
// a native window is initialized.
type Inputs struct {
	Keyboard  KeyboardDriver
	Mouse     MouseDriver
	Gamepad   GamepadDriver
	CharInput CharInputDriver
}

// NewInputs returns producers that post into d.
func NewInputs(d *Driver) Inputs {
	return Inputs{
		Keyboard:  KeyboardDriver{d: d},
		Mouse:     MouseDriver{d: d},
		Gamepad:   GamepadDriver{d: d},
		CharInput: CharInputDriver{d: d},
	}
}
