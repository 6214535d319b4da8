package reply

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/pepperpark/qsolmail/internal/mailbox"
)

const DefaultEditor = "nano"

// Sender submits a composed message.
type Sender interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SendError reports a failed submission.
type SendError struct {
	To  string
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.To, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Composer turns a message into a reply via an external editor.
// Only one draft should be in flight at a time; the caller blocks input
// between Prepare and Complete.
type Composer struct {
	Sender  Sender
	From    string // account address used as the sender
	Editor  string // program and optional args; DefaultEditor when empty
	TempDir string // os.TempDir() when empty
	Logger  *slog.Logger
}

func (c *Composer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// Prepare creates a draft replying to m and writes the quoted template
// to a fresh temp file.
func (c *Composer) Prepare(m mailbox.Message) (*Draft, error) {
	f, err := os.CreateTemp(c.TempDir, "qsolmail-reply-*.txt")
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	d := &Draft{To: Recipient(m.From), Subject: Subject(m.Subject), Path: f.Name()}
	if _, err := f.WriteString(Template(m)); err != nil {
		f.Close()
		os.Remove(d.Path)
		return nil, fmt.Errorf("write draft: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(d.Path)
		return nil, fmt.Errorf("write draft: %w", err)
	}
	c.logger().Debug("draft created", slog.String("path", d.Path), slog.String("to", d.To))
	return d, nil
}

// Command returns the editor invocation for d. Terminal I/O is left unset
// so the caller can attach it.
func (c *Composer) Command(d *Draft) *exec.Cmd {
	name, args := editorCommand(c.Editor)
	return exec.Command(name, append(args, d.Path)...)
}

// Complete finishes a draft after the editor exited with editErr. A failed
// editor discards the draft; otherwise the body is sent. The draft file is
// removed on every path.
func (c *Composer) Complete(ctx context.Context, d *Draft, editErr error) Event {
	logger := c.logger().With(slog.String("to", d.To))
	defer func() {
		if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove draft", slog.String("path", d.Path), slog.Any("error", err))
		}
	}()

	if editErr != nil {
		logger.Info("reply discarded", slog.Any("error", editErr))
		return Event{Type: EventDiscarded, To: d.To, Subject: d.Subject, Err: editErr}
	}

	body, err := os.ReadFile(d.Path)
	if err != nil {
		return Event{Type: EventFailed, To: d.To, Subject: d.Subject, Err: &SendError{To: d.To, Err: err}}
	}
	if err := c.Sender.Send(ctx, c.From, d.To, d.Subject, string(body)); err != nil {
		logger.Error("reply failed", slog.Any("error", err))
		return Event{Type: EventFailed, To: d.To, Subject: d.Subject, Err: &SendError{To: d.To, Err: err}}
	}
	logger.Info("reply sent", slog.String("subject", d.Subject))
	return Event{Type: EventSent, To: d.To, Subject: d.Subject}
}

// editorCommand splits an editor setting such as "code --wait" into the
// program and its leading arguments.
func editorCommand(editor string) (string, []string) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return DefaultEditor, nil
	}
	return fields[0], fields[1:]
}
