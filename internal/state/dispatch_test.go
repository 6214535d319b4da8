package state

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDispatchListView(t *testing.T) {
	keys := DefaultKeyMap()
	s := New(makeMessages(3))

	assert.Equal(t, ActionNone, Dispatch(s, keys, keyUp))
	assert.Equal(t, ActionRedraw, Dispatch(s, keys, keyDown))
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, ActionRedraw, Dispatch(s, keys, keyUp))
	assert.Equal(t, 0, s.Cursor())

	assert.Equal(t, ActionReply, Dispatch(s, keys, runeKey('r')))
	assert.Equal(t, ViewList, s.View())

	// back is not a list-view key
	assert.Equal(t, ActionNone, Dispatch(s, keys, runeKey('b')))
	assert.Equal(t, ActionNone, Dispatch(s, keys, runeKey('x')))

	assert.Equal(t, ActionRedraw, Dispatch(s, keys, keyEnter))
	assert.Equal(t, ViewDetail, s.View())
}

func TestDispatchDetailView(t *testing.T) {
	keys := DefaultKeyMap()
	s := New(makeMessages(3))
	Dispatch(s, keys, keyDown)
	Dispatch(s, keys, keyEnter)

	assert.Equal(t, ActionNone, Dispatch(s, keys, keyDown))
	assert.Equal(t, ActionNone, Dispatch(s, keys, keyEnter))
	assert.Equal(t, ActionReply, Dispatch(s, keys, runeKey('r')))
	assert.Equal(t, ViewDetail, s.View())

	assert.Equal(t, ActionRedraw, Dispatch(s, keys, runeKey('b')))
	assert.Equal(t, ViewList, s.View())
	assert.Equal(t, 1, s.Cursor())
}

func TestDispatchQuitFromBothViews(t *testing.T) {
	keys := DefaultKeyMap()
	s := New(makeMessages(2))
	assert.Equal(t, ActionQuit, Dispatch(s, keys, runeKey('q')))
	assert.Equal(t, ActionQuit, Dispatch(s, keys, tea.KeyMsg{Type: tea.KeyCtrlC}))

	Dispatch(s, keys, keyEnter)
	assert.Equal(t, ActionQuit, Dispatch(s, keys, runeKey('q')))
}

func TestDispatchEmptySession(t *testing.T) {
	keys := DefaultKeyMap()
	s := New(nil)
	for _, k := range []tea.KeyMsg{keyUp, keyDown, keyEnter, runeKey('r'), runeKey('b')} {
		assert.Equal(t, ActionNone, Dispatch(s, keys, k), "key %s", k)
	}
	assert.Equal(t, ViewList, s.View())
	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, ActionQuit, Dispatch(s, keys, runeKey('q')))
}
