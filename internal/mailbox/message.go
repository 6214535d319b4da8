package mailbox

import (
	"bufio"
	"bytes"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
)

// Placeholders used when a header is missing.
const (
	UnknownSender  = "Unknown"
	NoSubject      = "(no subject)"
	UnknownDate    = "Unknown"
	DefaultMailbox = "INBOX"
	DefaultLimit   = 10
)

// Message is one fetched mail item normalized for display.
type Message struct {
	SeqNum  uint32
	From    string
	Subject string
	Date    string
	// Body is the full raw message, headers included.
	Body string
}

// ParseMessage normalizes a raw RFC 5322 message. Header values are decoded
// for display; a header block that cannot be parsed leaves the placeholders.
func ParseMessage(seqNum uint32, raw []byte) Message {
	m := Message{
		SeqNum:  seqNum,
		From:    UnknownSender,
		Subject: NoSubject,
		Date:    UnknownDate,
		Body:    string(raw),
	}

	h, err := textproto.ReadHeader(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return m
	}
	mh := mail.Header{Header: message.Header{Header: h}}

	if h.Has("From") {
		if v, err := mh.Text("From"); err == nil && v != "" {
			m.From = v
		} else if v := h.Get("From"); v != "" {
			m.From = v
		}
	}
	if h.Has("Subject") {
		if v, err := mh.Subject(); err == nil && v != "" {
			m.Subject = v
		} else if v := h.Get("Subject"); v != "" {
			m.Subject = v
		}
	}
	if v := h.Get("Date"); v != "" {
		m.Date = v
	}
	return m
}
