package device

const (
	SubKeyCharInput = iota
)

// CharInputPayload is composed text, already UTF-8.
type CharInputPayload struct {
	Text string
}

func (CharInputPayload) SubKey() int { return SubKeyCharInput }

// CharInput delivers text input addressed to one window.
type CharInput struct {
	*BaseHandler
	onInput func(string)
}

// NewCharInput creates and registers a text input handler for windowID.
func NewCharInput(d *Driver, windowID uint32) *CharInput {
	c := &CharInput{}
	c.BaseHandler = NewHandler(d, TypeCharInput, windowID, c.decode)
	return c
}

func (c *CharInput) SetInputCallback(fn func(text string)) { c.onInput = fn }

func (c *CharInput) decode(p Payload) {
	if p, ok := p.(CharInputPayload); ok && c.onInput != nil {
		c.onInput(p.Text)
	}
}

// CharInputDriver is the producer side for text input.
type CharInputDriver struct {
	d *Driver
}

func (c CharInputDriver) PostCharInput(windowID uint32, text string) {
	if c.d == nil || text == "" {
		return
	}
	c.d.Post(Event{Type: TypeCharInput, ID: windowID, Payload: CharInputPayload{Text: text}})
}
