package state

import (
	"github.com/pepperpark/qsolmail/internal/mailbox"
)

// View is the screen the session is showing.
type View int

const (
	ViewList View = iota
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Session holds the fetched messages, the cursor and the current view.
// Messages are fixed for the lifetime of the session, newest first.
//
// The cursor is always within [0, len(messages)-1] when there are
// messages, and 0 otherwise. Selected is only set in ViewDetail.
type Session struct {
	messages []mailbox.Message
	cursor   int
	view     View
	selected *mailbox.Message
}

// New starts a session in the list view with the cursor on the newest message.
func New(msgs []mailbox.Message) *Session {
	return &Session{messages: msgs, view: ViewList}
}

func (s *Session) Messages() []mailbox.Message { return s.messages }
func (s *Session) Len() int                    { return len(s.messages) }
func (s *Session) Cursor() int                 { return s.cursor }
func (s *Session) View() View                  { return s.view }

// Selected returns the message open in the detail view, or nil in the list view.
func (s *Session) Selected() *mailbox.Message { return s.selected }

// MoveUp moves the cursor towards the newest message. It reports whether
// the cursor moved; it never wraps.
func (s *Session) MoveUp() bool {
	if s.view != ViewList || s.cursor == 0 {
		return false
	}
	s.cursor--
	return true
}

// MoveDown moves the cursor towards the oldest message without wrapping.
func (s *Session) MoveDown() bool {
	if s.view != ViewList || s.cursor >= len(s.messages)-1 {
		return false
	}
	s.cursor++
	return true
}

// Open switches to the detail view for the message under the cursor.
func (s *Session) Open() bool {
	if s.view != ViewList || len(s.messages) == 0 {
		return false
	}
	m := s.messages[s.cursor]
	s.selected = &m
	s.view = ViewDetail
	return true
}

// Back returns to the list view, keeping the cursor where it was.
func (s *Session) Back() bool {
	if s.view != ViewDetail {
		return false
	}
	s.selected = nil
	s.view = ViewList
	return true
}

// ReplyTarget returns the message a reply would answer: the selected
// message in the detail view, the message under the cursor in the list.
func (s *Session) ReplyTarget() (mailbox.Message, bool) {
	switch s.view {
	case ViewDetail:
		if s.selected != nil {
			return *s.selected, true
		}
	case ViewList:
		if len(s.messages) > 0 {
			return s.messages[s.cursor], true
		}
	}
	return mailbox.Message{}, false
}
