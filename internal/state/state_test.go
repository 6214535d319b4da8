package state

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/pepperpark/qsolmail/internal/mailbox"
)

func makeMessages(n int) []mailbox.Message {
	msgs := make([]mailbox.Message, 0, n)
	for i := n; i >= 1; i-- {
		msgs = append(msgs, mailbox.Message{
			SeqNum:  uint32(i),
			From:    fmt.Sprintf("Sender %d <s%d@example.com>", i, i),
			Subject: fmt.Sprintf("Subject %d", i),
			Date:    "Mon, 2 Jan 2006 15:04:05 -0700",
			Body:    fmt.Sprintf("Subject: Subject %d\r\n\r\nbody %d\r\n", i, i),
		})
	}
	return msgs
}

func TestCursorStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 10} {
		s := New(makeMessages(n))
		for step := 0; step < 500; step++ {
			if rng.Intn(2) == 0 {
				s.MoveUp()
			} else {
				s.MoveDown()
			}
			if s.Cursor() < 0 || s.Cursor() > n-1 {
				t.Fatalf("n=%d step=%d: cursor %d out of bounds", n, step, s.Cursor())
			}
		}
	}
}

func TestCursorClampsWithoutWrap(t *testing.T) {
	s := New(makeMessages(3))
	if s.MoveUp() {
		t.Fatal("expected MoveUp at top to be a no-op")
	}
	if s.Cursor() != 0 {
		t.Fatalf("expected cursor 0, got %d", s.Cursor())
	}
	s.MoveDown()
	s.MoveDown()
	if s.MoveDown() {
		t.Fatal("expected MoveDown at bottom to be a no-op")
	}
	if s.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", s.Cursor())
	}
}

func TestOpenAndBackKeepsCursor(t *testing.T) {
	s := New(makeMessages(5))
	s.MoveDown()
	s.MoveDown()
	if !s.Open() {
		t.Fatal("expected Open to succeed")
	}
	if s.View() != ViewDetail {
		t.Fatalf("expected detail view, got %s", s.View())
	}
	if s.Selected() == nil || s.Selected().SeqNum != 3 {
		t.Fatalf("expected message 3 selected, got %+v", s.Selected())
	}
	// cursor keys are ignored in the detail view
	s.MoveDown()
	if !s.Back() {
		t.Fatal("expected Back to succeed")
	}
	if s.View() != ViewList || s.Selected() != nil {
		t.Fatalf("expected list view without selection, got %s %+v", s.View(), s.Selected())
	}
	if s.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", s.Cursor())
	}
}

func TestEmptySession(t *testing.T) {
	s := New([]mailbox.Message{})
	if s.MoveUp() || s.MoveDown() || s.Open() || s.Back() {
		t.Fatal("expected all transitions to be no-ops")
	}
	if s.Cursor() != 0 || s.View() != ViewList {
		t.Fatalf("unexpected state: cursor=%d view=%s", s.Cursor(), s.View())
	}
	if _, ok := s.ReplyTarget(); ok {
		t.Fatal("expected no reply target")
	}
}

func TestReplyTargetFollowsView(t *testing.T) {
	s := New(makeMessages(4))
	s.MoveDown()
	m, ok := s.ReplyTarget()
	if !ok || m.SeqNum != 3 {
		t.Fatalf("expected cursor message 3, got %v %d", ok, m.SeqNum)
	}
	s.Open()
	m, ok = s.ReplyTarget()
	if !ok || m.SeqNum != 3 {
		t.Fatalf("expected selected message 3, got %v %d", ok, m.SeqNum)
	}
}
