// Package auth negotiates SSH credentials: the usual key files first, then
// a password, stopping at the first the server accepts.
package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/byte3-it/iscp/pkg/prompt"
	"github.com/byte3-it/iscp/pkg/remote"
	"github.com/byte3-it/iscp/pkg/ui"
)

// Verdict classifies one authentication attempt.
type Verdict int

const (
	// Accepted means the server let the credential in.
	Accepted Verdict = iota
	// Rejected means the server refused it; the next candidate may still
	// succeed.
	Rejected
	// Fault means the attempt never reached a verdict. Faults abort the
	// whole sequence, a later credential cannot fix a broken transport.
	Fault
)

// keyFileNames are the default key files, in preference order.
var keyFileNames = []string{"id_rsa", "id_ed25519", "id_ecdsa"}

// Session is the slice of remote.Session that authentication drives.
type Session interface {
	Authenticate(ctx context.Context, method ssh.AuthMethod) error
}

// Authenticator tries credentials in a fixed order against a session.
type Authenticator struct {
	home     string
	prompter prompt.Prompter
	out      *ui.Printer
	logger   zerolog.Logger
}

// New builds an Authenticator. home is the directory whose .ssh is searched
// for key files; empty means no key candidates at all.
func New(home string, prompter prompt.Prompter, out *ui.Printer, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		home:     home,
		prompter: prompter,
		out:      out,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// CandidateKeyPaths lists the key files that actually exist under home,
// in preference order.
func CandidateKeyPaths(home string) []string {
	if home == "" {
		return nil
	}
	var paths []string
	for _, name := range keyFileNames {
		p := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// Authenticate walks the credential sequence until the server accepts one.
// Rejections move on to the next candidate; a Fault aborts immediately.
// When the whole sequence is rejected the result is remote.ErrAuthFailed.
func (a *Authenticator) Authenticate(ctx context.Context, session Session) error {
	for _, keyPath := range CandidateKeyPaths(a.home) {
		verdict, err := a.tryKey(ctx, session, keyPath)
		switch verdict {
		case Accepted:
			return nil
		case Fault:
			return err
		}
	}

	a.out.Warnf("🔐 SSH key authentication failed, trying password authentication")

	verdict, err := a.tryPassword(ctx, session)
	switch verdict {
	case Accepted:
		return nil
	case Fault:
		return err
	}

	a.out.Failf("❌ Password authentication failed", nil)
	return remote.ErrAuthFailed
}

// tryKey makes at most one server attempt with the key at keyPath. An
// encrypted key triggers a single passphrase prompt; a passphrase that does
// not unlock it rejects the candidate without touching the server.
func (a *Authenticator) tryKey(ctx context.Context, session Session, keyPath string) (Verdict, error) {
	a.out.Infof("🔑 Trying SSH key: %s", keyPath)

	key, err := os.ReadFile(keyPath)
	if err != nil {
		a.logger.Debug().Err(err).Str("key", keyPath).Msg("unreadable key file")
		return Rejected, nil
	}

	unlocked := false
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if !errors.As(err, &missing) {
			a.logger.Debug().Err(err).Str("key", keyPath).Msg("unparsable key file")
			return Rejected, nil
		}

		a.out.Warnf("🔐 SSH key requires passphrase")
		passphrase, perr := a.prompter.AskSecret("🔑 SSH key passphrase")
		if perr != nil {
			return Fault, perr
		}
		signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
		if err != nil {
			a.logger.Debug().Err(err).Str("key", keyPath).Msg("passphrase did not unlock key")
			return Rejected, nil
		}
		unlocked = true
	}

	if err := session.Authenticate(ctx, ssh.PublicKeys(signer)); err != nil {
		if remote.IsAuthRejection(err) {
			a.logger.Debug().Str("key", keyPath).Msg("server rejected key")
			return Rejected, nil
		}
		return Fault, err
	}

	if unlocked {
		a.out.Successf("✅ Authenticated with SSH key (with passphrase)")
	} else {
		a.out.Successf("✅ Authenticated with SSH key (no passphrase)")
	}
	return Accepted, nil
}

// tryPassword makes the single password attempt that ends the sequence.
func (a *Authenticator) tryPassword(ctx context.Context, session Session) (Verdict, error) {
	password, err := a.prompter.AskSecret("🔑 Password")
	if err != nil {
		return Fault, err
	}

	if err := session.Authenticate(ctx, ssh.Password(password)); err != nil {
		if remote.IsAuthRejection(err) {
			return Rejected, nil
		}
		return Fault, err
	}

	a.out.Successf("✅ Authenticated with password")
	return Accepted, nil
}
