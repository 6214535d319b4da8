package state

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	lipgloss "github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pepperpark/qsolmail/internal/mailbox"
)

const (
	ListTitle   = "QSOL-Mail — Text Is Eternal"
	DetailTitle = "QSOL-Mail — Message View"
	EmptyText   = "No messages."

	fromWidth    = 30
	subjectWidth = 40
	dateWidth    = 20
	ruleWidth    = 60
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Render draws the current view. It only reads the session.
func Render(s *Session, keys *KeyMap) string {
	if s.View() == ViewDetail {
		return renderDetail(s, keys)
	}
	return renderList(s, keys)
}

func renderList(s *Session, keys *KeyMap) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ListTitle) + "\n\n")
	b.WriteString(controls(keys.ListHelp()) + "\n\n")
	if s.Len() == 0 {
		b.WriteString(EmptyText + "\n")
		return b.String()
	}
	for i, m := range s.Messages() {
		line := ListLine(i, m, i == s.Cursor())
		if i == s.Cursor() {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderDetail(s *Session, keys *KeyMap) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(DetailTitle) + "\n\n")
	b.WriteString(controls(keys.DetailHelp()) + "\n\n")
	m := s.Selected()
	if m == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("From:"), m.From)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Subject:"), m.Subject)
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Date:"), m.Date)
	b.WriteString(strings.Repeat("─", ruleWidth) + "\n")
	b.WriteString(BodyText(m.Body) + "\n")
	return b.String()
}

// ListLine formats one list row: marker, 1-based position and the
// truncated from, subject and date columns.
func ListLine(i int, m mailbox.Message, current bool) string {
	marker := " "
	if current {
		marker = ">"
	}
	return fmt.Sprintf("%s %d. %s | %s | %s", marker, i+1,
		runewidth.Truncate(m.From, fromWidth, ""),
		runewidth.Truncate(m.Subject, subjectWidth, ""),
		runewidth.Truncate(m.Date, dateWidth, ""))
}

func controls(bindings []key.Binding) string {
	return dimStyle.Render("Controls: ") + help.New().ShortHelpView(bindings)
}

// hiddenFields are header field names removed from the body display.
// A field matches when its name equals an entry or extends it with "-",
// so MIME-Version and Received-SPF are hidden but Today: is not.
var hiddenFields = []string{
	"from", "to", "subject", "date", "content-type", "mime", "message-id", "received",
}

// BodyText returns the raw message with header lines for hiddenFields
// removed, trimmed of surrounding whitespace. Folded continuation lines of
// a hidden field are removed with it.
func BodyText(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	folded := false
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if folded && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			continue
		}
		folded = isHiddenField(line)
		if folded {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isHiddenField(line string) bool {
	name, ok := fieldName(line)
	if !ok {
		return false
	}
	name = strings.ToLower(name)
	for _, f := range hiddenFields {
		if name == f || strings.HasPrefix(name, f+"-") {
			return true
		}
	}
	return false
}

// fieldName parses an RFC 5322 field name: printable ASCII other than
// space and colon, followed by a colon.
func fieldName(line string) (string, bool) {
	i := strings.IndexByte(line, ':')
	if i <= 0 {
		return "", false
	}
	for _, c := range []byte(line[:i]) {
		if c <= ' ' || c > '~' {
			return "", false
		}
	}
	return line[:i], true
}
