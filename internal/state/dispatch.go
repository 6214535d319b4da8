package state

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action tells the caller what to do after a key was dispatched.
type Action int

const (
	ActionNone   Action = iota // unrecognized key or no state change
	ActionRedraw               // state changed, redraw
	ActionReply                // compose a reply to ReplyTarget
	ActionQuit
)

// Dispatch applies one key to the session according to the current view.
// Keys that do not apply to the view are no-ops.
func Dispatch(s *Session, keys *KeyMap, msg tea.KeyMsg) Action {
	switch s.View() {
	case ViewList:
		switch {
		case key.Matches(msg, keys.Quit):
			return ActionQuit
		case key.Matches(msg, keys.Up):
			return redrawIf(s.MoveUp())
		case key.Matches(msg, keys.Down):
			return redrawIf(s.MoveDown())
		case key.Matches(msg, keys.Select):
			return redrawIf(s.Open())
		case key.Matches(msg, keys.Reply):
			if _, ok := s.ReplyTarget(); ok {
				return ActionReply
			}
		}
	case ViewDetail:
		switch {
		case key.Matches(msg, keys.Quit):
			return ActionQuit
		case key.Matches(msg, keys.Back):
			return redrawIf(s.Back())
		case key.Matches(msg, keys.Reply):
			if _, ok := s.ReplyTarget(); ok {
				return ActionReply
			}
		}
	}
	return ActionNone
}

func redrawIf(changed bool) Action {
	if changed {
		return ActionRedraw
	}
	return ActionNone
}
