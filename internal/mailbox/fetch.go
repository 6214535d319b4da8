package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-mbox"
)

type Options struct {
	Mailbox string // defaults to INBOX
	Limit   int    // size of the recent window, defaults to 10
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Mailbox == "" {
		o.Mailbox = DefaultMailbox
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// FetchRecent selects the mailbox read-only, retrieves the most recent
// Limit messages and returns them newest first. The connection is logged
// out on every return path; conn must not be reused afterwards.
func FetchRecent(ctx context.Context, conn Conn, opts Options) ([]Message, error) {
	opts = opts.withDefaults()
	logger := opts.Logger
	defer func() { _ = conn.Logout() }()

	if _, err := conn.Select(opts.Mailbox, true); err != nil {
		return nil, &ConnectionError{Op: "select " + opts.Mailbox, Err: err}
	}
	seqNums, err := conn.Search(imap.NewSearchCriteria())
	if err != nil {
		return nil, &ConnectionError{Op: "search", Err: err}
	}
	if len(seqNums) == 0 {
		logger.Info("mailbox is empty", slog.String("mailbox", opts.Mailbox))
		return []Message{}, nil
	}

	latest := recentWindow(seqNums, opts.Limit)
	logger.Debug("fetching messages",
		slog.String("mailbox", opts.Mailbox),
		slog.Int("available", len(seqNums)),
		slog.Int("fetching", len(latest)))

	seq := new(imap.SeqSet)
	seq.AddNum(latest...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}
	msgs := make(chan *imap.Message, len(latest))
	doneCh := make(chan error, 1)
	go func() {
		doneCh <- conn.Fetch(seq, items, msgs)
	}()

	out := make([]Message, 0, len(latest))
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				if err := <-doneCh; err != nil {
					return nil, &ConnectionError{Op: "fetch", Err: err}
				}
				sortNewestFirst(out)
				return out, nil
			}
			if msg == nil {
				continue
			}
			lit := msg.GetBody(section)
			if lit == nil {
				logger.Warn("message has no body, skipped", slog.Uint64("seq", uint64(msg.SeqNum)))
				continue
			}
			raw, err := io.ReadAll(lit)
			if err != nil {
				return nil, &ConnectionError{Op: "fetch", Err: fmt.Errorf("read message %d: %w", msg.SeqNum, err)}
			}
			out = append(out, ParseMessage(msg.SeqNum, raw))
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// ReadMbox reads a local mbox file and returns its most recent limit
// messages newest first. Sequence numbers follow file order starting at 1.
func ReadMbox(r io.Reader, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	mr := mbox.NewReader(r)
	var all []Message
	for seq := uint32(1); ; seq++ {
		part, err := mr.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mbox: %w", err)
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, part); err != nil {
			return nil, fmt.Errorf("read message %d: %w", seq, err)
		}
		all = append(all, ParseMessage(seq, buf.Bytes()))
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	sortNewestFirst(all)
	if all == nil {
		all = []Message{}
	}
	return all, nil
}

// recentWindow returns the last n identifiers in store order.
func recentWindow(ids []uint32, n int) []uint32 {
	sorted := append([]uint32(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

func sortNewestFirst(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].SeqNum > msgs[j].SeqNum })
}
