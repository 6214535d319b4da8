package reply

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pepperpark/qsolmail/internal/mailbox"
)

const replyPrefix = "Re:"

// Draft is a reply being composed. The body lives in the file at Path
// until the draft is completed.
type Draft struct {
	To      string
	Subject string
	Path    string
}

var bracketAddr = regexp.MustCompile(`<(.+?)>`)

// Recipient returns the bracketed address of a From field, or the whole
// field when it has none.
func Recipient(from string) string {
	if m := bracketAddr.FindStringSubmatch(from); m != nil {
		return m[1]
	}
	return from
}

// Subject prefixes subject with "Re: " unless it already starts with "Re:".
// The check ignores case so "RE: x" is not prefixed twice.
func Subject(subject string) string {
	if len(subject) >= len(replyPrefix) && strings.EqualFold(subject[:len(replyPrefix)], replyPrefix) {
		return subject
	}
	return replyPrefix + " " + subject
}

// Template is the initial content of the reply body.
func Template(m mailbox.Message) string {
	return fmt.Sprintf("\n\n--- Original Message ---\nFrom: %s\nSubject: %s\n", m.From, m.Subject)
}
