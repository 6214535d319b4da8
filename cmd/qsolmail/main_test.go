package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pepperpark/qsolmail/internal/config"
	"github.com/pepperpark/qsolmail/internal/state"
)

func clearCredentials(t *testing.T) {
	for _, e := range []string{"QSOLMAIL_USER", "GMAIL_USER", "QSOLMAIL_PASS", "GMAIL_PASS"} {
		t.Setenv(e, "")
	}
}

func TestListCommandReadsMbox(t *testing.T) {
	clearCredentials(t)
	dir := t.TempDir()
	var b strings.Builder
	for i := 1; i <= 3; i++ {
		b.WriteString("From jane@example.com Mon Jan  2 15:04:05 2006\n")
		fmt.Fprintf(&b, "From: Jane Doe <jane@example.com>\nSubject: Note %d\nDate: Mon, 2 Jan 2006 15:04:05 -0700\n\nhi\n\n", i)
	}
	path := filepath.Join(dir, "inbox.mbox")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list", "--config", filepath.Join(dir, "none.yaml"), "--mbox", path, "--limit", "2"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  1. Jane Doe <jane@example.com> | Note 3 |"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  2. Jane Doe <jane@example.com> | Note 2 |"), lines[1])
}

func TestListCommandEmptyMbox(t *testing.T) {
	clearCredentials(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.mbox")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list", "--config", filepath.Join(dir, "none.yaml"), "--mbox", path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, state.EmptyText+"\n", out.String())
}

func TestSessionRequiresCredentials(t *testing.T) {
	clearCredentials(t)
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")})

	err := cmd.Execute()
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"GMAIL_USER", "GMAIL_PASS"}, cfgErr.Missing)
}
