// Package transfer streams a local file through a remote write channel in
// fixed-size chunks.
package transfer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/byte3-it/iscp/pkg/config"
	"github.com/byte3-it/iscp/pkg/progress"
	"github.com/byte3-it/iscp/pkg/remote"
)

const (
	// ChunkSize is how much is read and written per loop iteration.
	ChunkSize = 8192
	// DefaultFileMode is applied to the remote file.
	DefaultFileMode = os.FileMode(0o644)
)

// Transferer copies one local file to the remote side, reporting the
// cumulative byte count after every chunk.
type Transferer struct {
	copier   remote.Copier
	reporter progress.Reporter
	logger   zerolog.Logger
}

// New builds a Transferer on the given protocol engine.
func New(copier remote.Copier, reporter progress.Reporter, logger zerolog.Logger) *Transferer {
	return &Transferer{
		copier:   copier,
		reporter: reporter,
		logger:   logger.With().Str("protocol", copier.Protocol()).Logger(),
	}
}

// Transfer streams cfg.LocalFile to cfg.RemotePath. The channel shutdown
// runs strictly as send-eof, wait-eof, close, wait-close; the first failed
// step aborts the sequence and no later step runs.
func (t *Transferer) Transfer(ctx context.Context, cfg *config.TransferConfig) error {
	file, err := os.Open(cfg.LocalFile)
	if err != nil {
		return fmt.Errorf("opening local file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("reading local file size: %w", err)
	}
	size := info.Size()

	channel, err := t.copier.OpenWrite(ctx, cfg.RemotePath, DefaultFileMode, size)
	if err != nil {
		return fmt.Errorf("opening remote channel: %w", err)
	}

	t.logger.Debug().
		Str("local", cfg.LocalFile).
		Str("remote", cfg.RemotePath).
		Int64("size", size).
		Msg("transfer starting")

	t.reporter.Start(uint64(size))

	if err := t.stream(ctx, file, channel); err != nil {
		return err
	}

	if err := channel.SendEOF(); err != nil {
		return fmt.Errorf("sending eof: %w", err)
	}
	if err := channel.WaitEOF(); err != nil {
		return fmt.Errorf("awaiting remote eof: %w", err)
	}
	if err := channel.Close(); err != nil {
		return fmt.Errorf("closing channel: %w", err)
	}
	if err := channel.WaitClose(); err != nil {
		return fmt.Errorf("awaiting remote close: %w", err)
	}

	t.reporter.Finish()
	t.logger.Info().Int64("bytes", size).Msg("transfer complete")
	return nil
}

// stream pumps the file through the channel. Every non-empty read is
// written in full before the next read happens.
func (t *Transferer) stream(ctx context.Context, file io.Reader, channel io.Writer) error {
	buf := make([]byte, ChunkSize)
	var transferred uint64

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("transfer cancelled: %w", err)
		}

		n, err := file.Read(buf)
		if n > 0 {
			written, werr := channel.Write(buf[:n])
			if werr != nil {
				return fmt.Errorf("writing chunk: %w", werr)
			}
			if written < n {
				return fmt.Errorf("writing chunk: %w", io.ErrShortWrite)
			}
			transferred += uint64(n)
			t.reporter.Update(transferred)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading local file: %w", err)
		}
	}
}
