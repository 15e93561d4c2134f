// Package remote manages the SSH session lifecycle and the protocol engines
// that copy files across it.
package remote

import (
	"context"
	"io"
	"os"
)

// WriteChannel is a one-shot stream writing a single remote file. After the
// payload is fully written the four shutdown calls must run in order:
// SendEOF, WaitEOF, Close, WaitClose. A failed step aborts the sequence.
type WriteChannel interface {
	io.Writer

	// SendEOF signals the remote side that the payload is complete.
	SendEOF() error
	// WaitEOF blocks until the remote side acknowledges the payload.
	WaitEOF() error
	// Close releases the local half of the channel.
	Close() error
	// WaitClose blocks until the remote teardown is confirmed.
	WaitClose() error
}

// Copier opens write channels on an authenticated session.
type Copier interface {
	// OpenWrite starts a remote write of size bytes to path with the given
	// permission bits. The declared size is binding: the channel expects
	// exactly that many payload bytes.
	OpenWrite(ctx context.Context, path string, mode os.FileMode, size int64) (WriteChannel, error)
	// Protocol names the wire protocol, for logs.
	Protocol() string
}
