// Package scp copies files with the classic scp sink protocol over an SSH
// session.
//
// The sink side is a remote "scp -t" process. The exchange for one file is:
// the sink greets with an ack, we announce the file with a C-record header,
// the sink acks the header, the payload streams across followed by a zero
// byte, and the sink acks the payload. Every ack is one status byte; a
// non-zero status is followed by a message line.
package scp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"

	"github.com/byte3-it/iscp/pkg/remote"
)

const remoteBinary = "scp"

const (
	ackOK      = 0
	ackWarning = 1
	ackFatal   = 2
)

// ErrRemoteFailure is the sink refusing or aborting the transfer.
var ErrRemoteFailure = errors.New("remote scp failure")

func init() {
	remote.RegisterCopier("scp", func(session *remote.Session, logger zerolog.Logger) (remote.Copier, error) {
		return New(session, logger)
	})
}

// Copier starts one sink process per file on an authenticated session.
type Copier struct {
	session *remote.Session
	logger  zerolog.Logger
}

// New builds a Copier. The session must already be authenticated.
func New(session *remote.Session, logger zerolog.Logger) (*Copier, error) {
	if _, err := session.Client(); err != nil {
		return nil, err
	}
	return &Copier{
		session: session,
		logger:  logger.With().Str("protocol", "scp").Logger(),
	}, nil
}

func (c *Copier) Protocol() string { return "scp" }

// OpenWrite launches the sink for filePath's directory and announces the
// file. The returned channel carries exactly size payload bytes.
func (c *Copier) OpenWrite(ctx context.Context, filePath string, mode os.FileMode, size int64) (remote.WriteChannel, error) {
	client, err := c.session.Client()
	if err != nil {
		return nil, err
	}

	sess, err := client.NewSession()
	if err != nil {
		return nil, remote.WrapError("scp", "open session", err)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		return nil, remote.WrapError("scp", "stdin pipe", err)
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		return nil, remote.WrapError("scp", "stdout pipe", err)
	}
	stderr, err := sess.StderrPipe()
	if err != nil {
		sess.Close()
		return nil, remote.WrapError("scp", "stderr pipe", err)
	}

	cmd := shellquote.Join(remoteBinary, "-qt", path.Dir(filePath))
	if err := sess.Start(cmd); err != nil {
		sess.Close()
		return nil, remote.WrapError("scp", "start sink", err)
	}

	ch := &channel{
		sess:   sess,
		stdin:  stdin,
		acks:   bufio.NewReader(stdout),
		logger: c.logger,
	}
	ch.bg.Go(func() error {
		_, err := io.Copy(&ch.stderr, stderr)
		return err
	})
	ch.bg.Go(func() error {
		ch.waitErr = sess.Wait()
		return nil
	})

	if err := ch.readAck(); err != nil {
		ch.abort()
		return nil, remote.WrapError("scp", "sink greeting", err)
	}
	if err := writeHeader(stdin, mode, size, path.Base(filePath)); err != nil {
		ch.abort()
		return nil, remote.WrapError("scp", "send header", err)
	}
	if err := ch.readAck(); err != nil {
		ch.abort()
		return nil, remote.WrapError("scp", "announce file", err)
	}

	c.logger.Debug().
		Str("path", filePath).
		Int64("size", size).
		Msg("sink accepted file header")
	return ch, nil
}

// writeHeader sends the C-record announcing a single file.
func writeHeader(w io.Writer, mode os.FileMode, size int64, name string) error {
	_, err := fmt.Fprintf(w, "C%#o %d %s\n", mode.Perm(), size, name)
	return err
}

// channel is one file upload in flight.
type channel struct {
	sess   *ssh.Session
	stdin  io.WriteCloser
	acks   *bufio.Reader
	logger zerolog.Logger

	bg      errgroup.Group
	stderr  bytes.Buffer
	waitErr error

	eofSent bool
	closed  bool
}

func (c *channel) Write(p []byte) (int, error) {
	return c.stdin.Write(p)
}

// SendEOF terminates the payload with the protocol's zero byte and closes
// stdin so the sink sees end of input.
func (c *channel) SendEOF() error {
	if c.eofSent {
		return nil
	}
	c.eofSent = true
	if _, err := c.stdin.Write([]byte{0}); err != nil {
		return remote.WrapError("scp", "send eof", err)
	}
	if err := c.stdin.Close(); err != nil {
		return remote.WrapError("scp", "close stdin", err)
	}
	return nil
}

// WaitEOF reads the sink's verdict on the payload.
func (c *channel) WaitEOF() error {
	if err := c.readAck(); err != nil {
		return remote.WrapError("scp", "confirm payload", err)
	}
	return nil
}

// Close releases the local half of the session. An io.EOF here means the
// remote side finished first, which is not a failure.
func (c *channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.sess.Close(); err != nil && err != io.EOF {
		return remote.WrapError("scp", "close session", err)
	}
	return nil
}

// WaitClose joins the background tasks and reports how the sink exited.
func (c *channel) WaitClose() error {
	if err := c.bg.Wait(); err != nil {
		return remote.WrapError("scp", "drain stderr", err)
	}
	return c.exitStatus()
}

func (c *channel) exitStatus() error {
	err := c.waitErr
	if err == nil {
		return nil
	}
	var missing *ssh.ExitMissingError
	if errors.As(err, &missing) {
		// We closed the session before the sink reported a status. The
		// payload was already acknowledged by then.
		return nil
	}
	if msg := strings.TrimSpace(c.stderr.String()); msg != "" {
		err = fmt.Errorf("%w (%s)", err, msg)
	}
	return remote.WrapError("scp", "sink exit", err)
}

// readAck consumes one protocol acknowledgement.
func (c *channel) readAck() error {
	status, err := c.acks.ReadByte()
	if err != nil {
		return fmt.Errorf("reading ack: %w", err)
	}
	switch status {
	case ackOK:
		return nil
	case ackWarning, ackFatal:
		msg, _ := c.acks.ReadString('\n')
		msg = strings.TrimSpace(msg)
		if msg == "" {
			msg = "no detail sent"
		}
		severity := "warning"
		if status == ackFatal {
			severity = "fatal"
		}
		return fmt.Errorf("%w: %s: %s", ErrRemoteFailure, severity, msg)
	default:
		return fmt.Errorf("%w: unexpected ack byte %#x", ErrRemoteFailure, status)
	}
}

// abort tears the session down after a failed handshake so the background
// tasks do not leak.
func (c *channel) abort() {
	c.stdin.Close()
	c.sess.Close()
	_ = c.bg.Wait()
}
