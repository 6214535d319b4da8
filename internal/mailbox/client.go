package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Conn is the subset of an IMAP client connection the fetcher needs.
// *client.Client satisfies it.
type Conn interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Search(criteria *imap.SearchCriteria) ([]uint32, error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
}

// ConnectionError reports a failure while talking to the mail store.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mailbox %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DialAndLogin connects and logs into an IMAP server. ctx is checked
// before dialing and before login.
func DialAndLogin(ctx context.Context, host string, port int, user, pass string, startTLS bool, tlsConfig *tls.Config) (*client.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ConnectionError{Op: "dial", Err: err}
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	var c *client.Client
	var err error
	if startTLS {
		// Plain connection, then upgrade with STARTTLS
		c, err = client.Dial(addr)
		if err != nil {
			return nil, &ConnectionError{Op: "dial", Err: err}
		}
		if err := c.StartTLS(tlsConfig); err != nil {
			_ = c.Logout()
			return nil, &ConnectionError{Op: "starttls", Err: err}
		}
	} else {
		c, err = client.DialTLS(addr, tlsConfig)
		if err != nil {
			return nil, &ConnectionError{Op: "dial", Err: err}
		}
	}
	// Raw IMAP wire debug goes to stderr before the UI owns the terminal.
	if os.Getenv("QSOLMAIL_IMAP_DEBUG") == "1" {
		c.SetDebug(os.Stderr)
	}
	if err := ctx.Err(); err != nil {
		_ = c.Logout()
		return nil, &ConnectionError{Op: "login", Err: err}
	}
	if err := c.Login(user, pass); err != nil {
		_ = c.Logout()
		return nil, &ConnectionError{Op: "login", Err: err}
	}
	return c, nil
}
