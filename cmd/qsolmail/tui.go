package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	lipgloss "github.com/charmbracelet/lipgloss"

	"github.com/pepperpark/qsolmail/internal/reply"
	"github.com/pepperpark/qsolmail/internal/state"
)

const (
	sentStatusFor   = time.Second
	failedStatusFor = 2 * time.Second
)

var (
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type model struct {
	ctx      context.Context
	sess     *state.Session
	keys     *state.KeyMap
	composer *reply.Composer
	spinner  spinner.Model

	// draft is set from the moment the editor opens until the reply is
	// sent or discarded; keys are ignored meanwhile.
	draft   *reply.Draft
	sending bool

	status    string
	statusErr bool
	statusSeq int
}

type editorFinishedMsg struct{ err error }
type replyDoneMsg reply.Event
type clearStatusMsg struct{ seq int }

func newModel(ctx context.Context, sess *state.Session, composer *reply.Composer) *model {
	s := spinner.New()
	s.Spinner = spinner.Line
	return &model{ctx: ctx, sess: sess, keys: state.DefaultKeyMap(), composer: composer, spinner: s}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.draft != nil {
			return m, nil
		}
		switch state.Dispatch(m.sess, m.keys, msg) {
		case state.ActionQuit:
			return m, tea.Quit
		case state.ActionReply:
			return m, m.startReply()
		}
		return m, nil
	case editorFinishedMsg:
		if m.draft == nil {
			return m, nil
		}
		if msg.err != nil {
			return m, m.finishReply(m.composer.Complete(m.ctx, m.draft, msg.err))
		}
		m.sending = true
		draft := m.draft
		send := func() tea.Msg {
			return replyDoneMsg(m.composer.Complete(m.ctx, draft, nil))
		}
		return m, tea.Batch(m.spinner.Tick, send)
	case replyDoneMsg:
		return m, m.finishReply(reply.Event(msg))
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startReply writes the draft and hands the terminal to the editor. The
// program is suspended until the editor exits.
func (m *model) startReply() tea.Cmd {
	target, ok := m.sess.ReplyTarget()
	if !ok {
		return nil
	}
	draft, err := m.composer.Prepare(target)
	if err != nil {
		return m.flash("Reply failed: "+err.Error(), true, failedStatusFor)
	}
	m.draft = draft
	return tea.ExecProcess(m.composer.Command(draft), func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (m *model) finishReply(ev reply.Event) tea.Cmd {
	m.draft = nil
	m.sending = false
	switch ev.Type {
	case reply.EventSent:
		return m.flash("Reply sent!", false, sentStatusFor)
	case reply.EventFailed:
		return m.flash("Send failed: "+ev.Err.Error(), true, failedStatusFor)
	}
	return nil
}

// flash shows a status line for d.
func (m *model) flash(text string, isErr bool, d time.Duration) tea.Cmd {
	m.statusSeq++
	m.status, m.statusErr = text, isErr
	seq := m.statusSeq
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *model) View() string {
	s := state.Render(m.sess, m.keys)
	if m.sending {
		s += "\n" + m.spinner.View() + " Sending reply...\n"
	}
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errStyle
		}
		s += "\n" + style.Render(m.status) + "\n"
	}
	return s
}

// runTUI runs the session until the user quits.
func runTUI(ctx context.Context, sess *state.Session, composer *reply.Composer) error {
	_, err := tea.NewProgram(newModel(ctx, sess, composer), tea.WithAltScreen()).Run()
	return err
}
