package scp

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

type closableBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closableBuffer) Close() error {
	b.closed = true
	return nil
}

func TestWriteHeader(t *testing.T) {
	tests := []struct {
		name string
		mode os.FileMode
		size int64
		file string
		want string
	}{
		{name: "default_mode", mode: 0o644, size: 20000, file: "report.pdf", want: "C0644 20000 report.pdf\n"},
		{name: "executable", mode: 0o755, size: 1, file: "run.sh", want: "C0755 1 run.sh\n"},
		{name: "empty_file", mode: 0o644, size: 0, file: "empty.bin", want: "C0644 0 empty.bin\n"},
		{name: "mode_stripped_to_permissions", mode: os.ModeSetuid | 0o600, size: 5, file: "secret", want: "C0600 5 secret\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeHeader(&buf, tt.mode, tt.size, tt.file))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReadAck(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "ok", input: "\x00"},
		{name: "warning_with_message", input: "\x01scp: permission denied\n", wantErr: "warning: scp: permission denied"},
		{name: "fatal_with_message", input: "\x02scp: no such directory\n", wantErr: "fatal: scp: no such directory"},
		{name: "failure_without_detail", input: "\x02", wantErr: "no detail sent"},
		{name: "garbage_byte", input: "\x07", wantErr: "unexpected ack byte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &channel{acks: bufio.NewReader(strings.NewReader(tt.input))}
			err := ch.readAck()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRemoteFailure)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadAckOnClosedStream(t *testing.T) {
	ch := &channel{acks: bufio.NewReader(strings.NewReader(""))}

	err := ch.readAck()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading ack")
}

func TestSendEOFWritesTerminatorAndClosesStdin(t *testing.T) {
	stdin := &closableBuffer{}
	ch := &channel{stdin: stdin}

	require.NoError(t, ch.SendEOF())
	assert.Equal(t, []byte{0}, stdin.Bytes())
	assert.True(t, stdin.closed)

	// Repeat calls must not emit a second terminator.
	require.NoError(t, ch.SendEOF())
	assert.Equal(t, []byte{0}, stdin.Bytes())
}

func TestWaitEOFConsumesPayloadAck(t *testing.T) {
	ch := &channel{acks: bufio.NewReader(strings.NewReader("\x00"))}
	assert.NoError(t, ch.WaitEOF())

	ch = &channel{acks: bufio.NewReader(strings.NewReader("\x02scp: disk full\n"))}
	err := ch.WaitEOF()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestExitStatus(t *testing.T) {
	t.Run("clean_exit", func(t *testing.T) {
		ch := &channel{}
		assert.NoError(t, ch.exitStatus())
	})

	t.Run("missing_status_after_local_close", func(t *testing.T) {
		ch := &channel{waitErr: &ssh.ExitMissingError{}}
		assert.NoError(t, ch.exitStatus())
	})

	t.Run("failure_carries_stderr", func(t *testing.T) {
		ch := &channel{waitErr: errors.New("Process exited with status 1")}
		ch.stderr.WriteString("scp: /srv/drop: Permission denied\n")

		err := ch.exitStatus()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Permission denied")
	})
}
