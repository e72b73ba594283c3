package app

import (
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/window"
)

// Commands travel from windows to the platform over the context's command
// bus. Each kind has its own key and payload type.
type commandKind int

const (
	cmdExit commandKind = iota
	cmdSetSize
	cmdSetPos
	cmdSetTitle
	cmdSetState
	cmdSetFlags
	cmdShowInfoDialog
	cmdSetCursor
	cmdSetCursorMode
	cmdSetCursorPos
)

var commandKinds = []commandKind{
	cmdExit, cmdSetSize, cmdSetPos, cmdSetTitle, cmdSetState,
	cmdSetFlags, cmdShowInfoDialog, cmdSetCursor, cmdSetCursorMode, cmdSetCursorPos,
}

func (k commandKind) String() string {
	switch k {
	case cmdExit:
		return "exit"
	case cmdSetSize:
		return "set_size"
	case cmdSetPos:
		return "set_pos"
	case cmdSetTitle:
		return "set_title"
	case cmdSetState:
		return "set_state"
	case cmdSetFlags:
		return "set_flags"
	case cmdShowInfoDialog:
		return "show_info_dialog"
	case cmdSetCursor:
		return "set_cursor"
	case cmdSetCursorMode:
		return "set_cursor_mode"
	case cmdSetCursorPos:
		return "set_cursor_pos"
	default:
		return "unknown"
	}
}

type command interface {
	event.Event
	target() *Handle
}

type exitCommand struct {
	h *Handle
}

type sizeCommand struct {
	h             *Handle
	width, height int
}

type posCommand struct {
	h    *Handle
	x, y int
}

type titleCommand struct {
	h     *Handle
	title string
}

type stateCommand struct {
	h     *Handle
	state window.State
}

type flagsCommand struct {
	h     *Handle
	flags window.Flags
}

type infoDialogCommand struct {
	h              *Handle
	title, message string
}

type cursorCommand struct {
	h      *Handle
	cursor window.Cursor
}

type cursorModeCommand struct {
	h    *Handle
	mode window.CursorMode
}

type cursorPosCommand struct {
	h    *Handle
	x, y int
}

func (c exitCommand) EventKey() int       { return int(cmdExit) }
func (c sizeCommand) EventKey() int       { return int(cmdSetSize) }
func (c posCommand) EventKey() int        { return int(cmdSetPos) }
func (c titleCommand) EventKey() int      { return int(cmdSetTitle) }
func (c stateCommand) EventKey() int      { return int(cmdSetState) }
func (c flagsCommand) EventKey() int      { return int(cmdSetFlags) }
func (c infoDialogCommand) EventKey() int { return int(cmdShowInfoDialog) }
func (c cursorCommand) EventKey() int     { return int(cmdSetCursor) }
func (c cursorModeCommand) EventKey() int { return int(cmdSetCursorMode) }
func (c cursorPosCommand) EventKey() int  { return int(cmdSetCursorPos) }

func (c exitCommand) target() *Handle       { return c.h }
func (c sizeCommand) target() *Handle       { return c.h }
func (c posCommand) target() *Handle        { return c.h }
func (c titleCommand) target() *Handle      { return c.h }
func (c stateCommand) target() *Handle      { return c.h }
func (c flagsCommand) target() *Handle      { return c.h }
func (c infoDialogCommand) target() *Handle { return c.h }
func (c cursorCommand) target() *Handle     { return c.h }
func (c cursorModeCommand) target() *Handle { return c.h }
func (c cursorPosCommand) target() *Handle  { return c.h }

// dispatchCommand applies one command to its target's native window.
// Commands for windows without a native window are dropped.
func (c *Context) dispatchCommand(ev event.Event) {
	cmd, ok := ev.(command)
	if !ok {
		return
	}
	h := cmd.target()
	if h == nil || h.native == nil {
		return
	}
	nw := h.native
	c.logger.Debug("dispatch command", "window_id", h.id, "command", commandKind(cmd.EventKey()))

	switch cmd := cmd.(type) {
	case exitCommand:
		nw.Exit()
	case sizeCommand:
		nw.SetWindowSize(cmd.width, cmd.height)
	case posCommand:
		nw.SetWindowPos(cmd.x, cmd.y)
	case titleCommand:
		nw.SetWindowTitle(cmd.title)
	case stateCommand:
		nw.SetWindowState(cmd.state)
	case flagsCommand:
		nw.SetWindowFlags(cmd.flags)
	case infoDialogCommand:
		nw.ShowInfoDialog(cmd.title, cmd.message)
	case cursorCommand:
		nw.SetCursor(cmd.cursor)
	case cursorModeCommand:
		nw.SetCursorMode(cmd.mode)
	case cursorPosCommand:
		nw.SetCursorPosition(cmd.x, cmd.y)
	}
}

func (c *Context) postCommand(cmd command) {
	c.commands.Post(cmd)
	c.wake()
}

func (c *Context) PostExitWindow(h *Handle) {
	c.postCommand(exitCommand{h: h})
}

func (c *Context) PostSetWindowSize(h *Handle, w, height int) {
	c.postCommand(sizeCommand{h: h, width: w, height: height})
}

func (c *Context) PostSetWindowPos(h *Handle, x, y int) {
	c.postCommand(posCommand{h: h, x: x, y: y})
}

func (c *Context) PostSetWindowTitle(h *Handle, title string) {
	c.postCommand(titleCommand{h: h, title: title})
}

func (c *Context) PostSetWindowState(h *Handle, state window.State) {
	c.postCommand(stateCommand{h: h, state: state})
}

func (c *Context) PostSetWindowFlags(h *Handle, flags window.Flags) {
	c.postCommand(flagsCommand{h: h, flags: flags})
}

func (c *Context) PostShowInfoDialog(h *Handle, title, message string) {
	c.postCommand(infoDialogCommand{h: h, title: title, message: message})
}

func (c *Context) PostSetCursor(h *Handle, cursor window.Cursor) {
	c.postCommand(cursorCommand{h: h, cursor: cursor})
}

func (c *Context) PostSetCursorMode(h *Handle, mode window.CursorMode) {
	c.postCommand(cursorModeCommand{h: h, mode: mode})
}

func (c *Context) PostSetCursorPos(h *Handle, x, y int) {
	c.postCommand(cursorPosCommand{h: h, x: x, y: y})
}
