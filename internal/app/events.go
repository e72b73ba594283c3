package app

import "github.com/1broseidon/winshell/internal/event"

// Lifecycle events travel from a backend to one window's own bus.
const (
	winEventExit = iota
	winEventSize
	winEventPos
	winEventDrop
	winEventFocus
)

type exitEvent struct{}

type sizeEvent struct {
	w, h int
}

type posEvent struct {
	x, y int
}

type dropEvent struct {
	paths []string
}

type focusEvent struct {
	focused bool
}

func (exitEvent) EventKey() int  { return winEventExit }
func (sizeEvent) EventKey() int  { return winEventSize }
func (posEvent) EventKey() int   { return winEventPos }
func (dropEvent) EventKey() int  { return winEventDrop }
func (focusEvent) EventKey() int { return winEventFocus }

var winEventKeys = []int{winEventExit, winEventSize, winEventPos, winEventDrop, winEventFocus}

var (
	_ event.Event = exitEvent{}
	_ event.Event = sizeEvent{}
	_ event.Event = posEvent{}
	_ event.Event = dropEvent{}
	_ event.Event = focusEvent{}
)
