// Package sftp copies files over the SFTP subsystem. It is the fallback
// engine for hosts without an scp binary.
package sftp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"

	"github.com/byte3-it/iscp/pkg/remote"
)

// ErrSizeMismatch is the remote file not holding the declared byte count
// after the payload finished.
var ErrSizeMismatch = errors.New("remote size mismatch")

func init() {
	remote.RegisterCopier("sftp", func(session *remote.Session, logger zerolog.Logger) (remote.Copier, error) {
		return New(session, logger)
	})
}

// Copier opens one SFTP subsystem per file on an authenticated session.
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
		logger:  logger.With().Str("protocol", "sftp").Logger(),
	}, nil
}

func (c *Copier) Protocol() string { return "sftp" }

// OpenWrite creates the remote file and hands back the channel writing it.
func (c *Copier) OpenWrite(ctx context.Context, filePath string, mode os.FileMode, size int64) (remote.WriteChannel, error) {
	sshClient, err := c.session.Client()
	if err != nil {
		return nil, err
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, remote.WrapError("sftp", "subsystem init", err)
	}

	ch, err := openOn(client, filePath, mode, size, c.logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	return ch, nil
}

// openOn does the remote-filesystem half of OpenWrite. Split out so tests
// can drive it against an in-process sftp server.
func openOn(client *sftp.Client, filePath string, mode os.FileMode, size int64, logger zerolog.Logger) (*channel, error) {
	// Ensure remote directory exists
	if err := client.MkdirAll(path.Dir(filePath)); err != nil {
		return nil, remote.WrapError("sftp", "mkdir", err)
	}

	file, err := client.Create(filePath)
	if err != nil {
		return nil, remote.WrapError("sftp", "create", err)
	}

	if err := file.Chmod(mode.Perm()); err != nil {
		file.Close()
		return nil, remote.WrapError("sftp", "chmod", err)
	}

	logger.Debug().Str("path", filePath).Int64("size", size).Msg("remote file created")
	return &channel{
		client: client,
		file:   file,
		path:   filePath,
		size:   size,
	}, nil
}

// channel is one file upload in flight. SFTP confirms every request as it
// happens, so the shutdown steps are lighter than scp's: SendEOF flushes and
// closes the handle, WaitEOF verifies the remote size against the declared
// one, Close drops the subsystem, and WaitClose has nothing left to await.
type channel struct {
	client *sftp.Client
	file   *sftp.File
	path   string
	size   int64

	eofSent bool
	closed  bool
}

func (c *channel) Write(p []byte) (int, error) {
	return c.file.Write(p)
}

func (c *channel) SendEOF() error {
	if c.eofSent {
		return nil
	}
	c.eofSent = true
	if err := c.file.Close(); err != nil {
		return remote.WrapError("sftp", "close remote file", err)
	}
	return nil
}

func (c *channel) WaitEOF() error {
	info, err := c.client.Stat(c.path)
	if err != nil {
		return remote.WrapError("sftp", "stat remote file", err)
	}
	if info.Size() != c.size {
		return remote.WrapError("sftp", "verify size",
			fmt.Errorf("%w: remote has %d bytes, declared %d", ErrSizeMismatch, info.Size(), c.size))
	}
	return nil
}

func (c *channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.client.Close(); err != nil {
		return remote.WrapError("sftp", "close subsystem", err)
	}
	return nil
}

func (c *channel) WaitClose() error {
	return nil
}
