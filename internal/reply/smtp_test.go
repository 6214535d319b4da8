package reply

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	date := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	raw, err := BuildMessage("me@example.com", "jane@example.com", "Re: Hello", "Thanks!", date)
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer mr.Close()

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Re: Hello", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "jane@example.com", to[0].Address)

	got, err := mr.Header.Date()
	require.NoError(t, err)
	assert.True(t, date.Equal(got))

	id, err := mr.Header.MessageID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", string(body))
}

func TestSMTPSenderHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &SMTPSender{Host: "127.0.0.1", Port: 1}
	assert.ErrorIs(t, s.Send(ctx, "me@example.com", "jane@example.com", "Re: Hello", "Thanks!"), context.Canceled)
}
