package reply

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPSender submits mail over SMTP with PLAIN authentication.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	StartTLS bool // implicit TLS when false
	Insecure bool
}

func (s *SMTPSender) Send(ctx context.Context, from, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := BuildMessage(from, to, subject, body, time.Now())
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	tlsConfig := &tls.Config{ServerName: s.Host, InsecureSkipVerify: s.Insecure}
	var c *smtp.Client
	if s.StartTLS {
		c, err = smtp.DialStartTLS(addr, tlsConfig)
	} else {
		c, err = smtp.DialTLS(addr, tlsConfig)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", s.Username, s.Password)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.SendMail(from, []string{to}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return c.Quit()
}

// BuildMessage renders a plain-text message with the usual headers.
func BuildMessage(from, to, subject, body string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	return buf.Bytes(), nil
}
