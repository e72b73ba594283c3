package device

const (
	SubKeyMouseMove = iota
	SubKeyMouseButton
	SubKeyMouseScroll
)

// MouseMovePayload carries the pointer position in window coordinates.
type MouseMovePayload struct {
	X, Y int
}

// MouseButtonPayload is a button transition.
type MouseButtonPayload struct {
	Button MouseButton
	Action KeyAction
}

// MouseScrollPayload is a wheel or trackpad scroll offset.
type MouseScrollPayload struct {
	DX, DY float64
}

func (MouseMovePayload) SubKey() int   { return SubKeyMouseMove }
func (MouseButtonPayload) SubKey() int { return SubKeyMouseButton }
func (MouseScrollPayload) SubKey() int { return SubKeyMouseScroll }

// Mouse delivers pointer events addressed to one window.
type Mouse struct {
	*BaseHandler
	onMove    func(x, y int)
	onPress   func(MouseButton)
	onRelease func(MouseButton)
	onScroll  func(dx, dy float64)
}

// NewMouse creates and registers a mouse handler for windowID.
func NewMouse(d *Driver, windowID uint32) *Mouse {
	m := &Mouse{}
	m.BaseHandler = NewHandler(d, TypeMouse, windowID, m.decode)
	return m
}

func (m *Mouse) SetMoveCallback(fn func(x, y int))         { m.onMove = fn }
func (m *Mouse) SetPressCallback(fn func(MouseButton))     { m.onPress = fn }
func (m *Mouse) SetReleaseCallback(fn func(MouseButton))   { m.onRelease = fn }
func (m *Mouse) SetScrollCallback(fn func(dx, dy float64)) { m.onScroll = fn }

func (m *Mouse) decode(p Payload) {
	switch p := p.(type) {
	case MouseMovePayload:
		if m.onMove != nil {
			m.onMove(p.X, p.Y)
		}
	case MouseButtonPayload:
		// A release never falls through to the press callback.
		if p.Action == ActionRelease {
			if m.onRelease != nil {
				m.onRelease(p.Button)
			}
			return
		}
		if m.onPress != nil {
			m.onPress(p.Button)
		}
	case MouseScrollPayload:
		if m.onScroll != nil {
			m.onScroll(p.DX, p.DY)
		}
	}
}

// MouseDriver is the producer side for pointer input.
type MouseDriver struct {
	d *Driver
}

func (m MouseDriver) PostMouseMove(windowID uint32, x, y int) {
	m.post(windowID, MouseMovePayload{X: x, Y: y})
}

func (m MouseDriver) PostMouseButton(windowID uint32, button MouseButton, action KeyAction) {
	m.post(windowID, MouseButtonPayload{Button: button, Action: action})
}

func (m MouseDriver) PostMouseScroll(windowID uint32, dx, dy float64) {
	m.post(windowID, MouseScrollPayload{DX: dx, DY: dy})
}

func (m MouseDriver) post(windowID uint32, p Payload) {
	if m.d == nil {
		return
	}
	m.d.Post(Event{Type: TypeMouse, ID: windowID, Payload: p})
}
