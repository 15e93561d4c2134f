package auth

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/byte3-it/iscp/pkg/prompt/mocks"
	"github.com/byte3-it/iscp/pkg/remote"
	"github.com/byte3-it/iscp/pkg/remote/sshtest"
	"github.com/byte3-it/iscp/pkg/ui"
)

// writeKey drops a PEM-encoded ed25519 key into home/.ssh/name and returns
// its signer. A non-empty passphrase encrypts the file.
func writeKey(t *testing.T, home, name, passphrase string) ssh.Signer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	}
	require.NoError(t, err)

	keyDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(keyDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(keyDir, name), pem.EncodeToMemory(block), 0o600))

	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer
}

// scriptedSession replays canned verdicts, one per attempt.
type scriptedSession struct {
	t       *testing.T
	replies []error
	calls   int
}

func (s *scriptedSession) Authenticate(ctx context.Context, method ssh.AuthMethod) error {
	if s.calls >= len(s.replies) {
		s.t.Fatalf("unexpected authentication attempt %d", s.calls+1)
	}
	err := s.replies[s.calls]
	s.calls++
	return err
}

func newAuthenticator(home string, prompter *mocks.MockPrompter) (*Authenticator, *bytes.Buffer) {
	var out bytes.Buffer
	return New(home, prompter, ui.New(&out, false), zerolog.Nop()), &out
}

func TestCandidateKeyPaths(t *testing.T) {
	t.Run("preference_order", func(t *testing.T) {
		home := t.TempDir()
		writeKey(t, home, "id_ecdsa", "")
		writeKey(t, home, "id_rsa", "")

		paths := CandidateKeyPaths(home)
		require.Len(t, paths, 2)
		assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa"), paths[0])
		assert.Equal(t, filepath.Join(home, ".ssh", "id_ecdsa"), paths[1])
	})

	t.Run("empty_home", func(t *testing.T) {
		assert.Nil(t, CandidateKeyPaths(""))
	})

	t.Run("no_key_directory", func(t *testing.T) {
		assert.Empty(t, CandidateKeyPaths(t.TempDir()))
	})
}

func TestFirstKeyAcceptedShortCircuits(t *testing.T) {
	home := t.TempDir()
	writeKey(t, home, "id_rsa", "")
	writeKey(t, home, "id_ed25519", "")

	prompter := new(mocks.MockPrompter)
	a, out := newAuthenticator(home, prompter)
	session := &scriptedSession{t: t, replies: []error{nil}}

	require.NoError(t, a.Authenticate(context.Background(), session))

	assert.Equal(t, 1, session.calls)
	assert.Contains(t, out.String(), "✅ Authenticated with SSH key (no passphrase)")
	prompter.AssertNumberOfCalls(t, "AskSecret", 0)
}

func TestKeysRejectedThenPasswordAccepted(t *testing.T) {
	home := t.TempDir()
	writeKey(t, home, "id_rsa", "")
	writeKey(t, home, "id_ed25519", "")

	prompter := new(mocks.MockPrompter)
	prompter.On("AskSecret", "🔑 Password").Return("hunter2", nil)

	a, out := newAuthenticator(home, prompter)
	session := &scriptedSession{t: t, replies: []error{remote.ErrAuthFailed, remote.ErrAuthFailed, nil}}

	require.NoError(t, a.Authenticate(context.Background(), session))

	assert.Equal(t, 3, session.calls)
	assert.Contains(t, out.String(), "trying password authentication")
	assert.Contains(t, out.String(), "✅ Authenticated with password")
	prompter.AssertNumberOfCalls(t, "AskSecret", 1)
}

func TestEncryptedKeyPromptsOnceAndAuthenticates(t *testing.T) {
	home := t.TempDir()
	writeKey(t, home, "id_rsa", "letmein")

	prompter := new(mocks.MockPrompter)
	prompter.On("AskSecret", "🔑 SSH key passphrase").Return("letmein", nil)

	a, out := newAuthenticator(home, prompter)
	session := &scriptedSession{t: t, replies: []error{nil}}

	require.NoError(t, a.Authenticate(context.Background(), session))

	assert.Contains(t, out.String(), "🔐 SSH key requires passphrase")
	assert.Contains(t, out.String(), "✅ Authenticated with SSH key (with passphrase)")
	prompter.AssertNumberOfCalls(t, "AskSecret", 1)
}

func TestWrongPassphraseMovesToNextMethod(t *testing.T) {
	home := t.TempDir()
	writeKey(t, home, "id_rsa", "letmein")

	prompter := new(mocks.MockPrompter)
	prompter.On("AskSecret", "🔑 SSH key passphrase").Return("wrong", nil)
	prompter.On("AskSecret", "🔑 Password").Return("hunter2", nil)

	a, _ := newAuthenticator(home, prompter)
	// The key never reaches the server: the only attempt is the password.
	session := &scriptedSession{t: t, replies: []error{nil}}

	require.NoError(t, a.Authenticate(context.Background(), session))

	assert.Equal(t, 1, session.calls)
	prompter.AssertNumberOfCalls(t, "AskSecret", 2)
}

func TestRejectedUnencryptedKeyDoesNotPromptPassphrase(t *testing.T) {
	home := t.TempDir()
	writeKey(t, home, "id_rsa", "")

	prompter := new(mocks.MockPrompter)
	prompter.On("AskSecret", "🔑 Password").Return("hunter2", nil)

	a, out := newAuthenticator(home, prompter)
	session := &scriptedSession{t: t, replies: []error{remote.ErrAuthFailed, nil}}

	require.NoError(t, a.Authenticate(context.Background(), session))

	assert.NotContains(t, out.String(), "requires passphrase")
	prompter.AssertNumberOfCalls(t, "AskSecret", 1)
}

func TestTransportFaultAbortsSequence(t *testing.T) {
	home := t.TempDir()
	writeKey(t, home, "id_rsa", "")
	writeKey(t, home, "id_ed25519", "")

	fault := errors.New("ssh: handshake failed: read tcp: connection reset by peer")
	prompter := new(mocks.MockPrompter)
	a, _ := newAuthenticator(home, prompter)
	session := &scriptedSession{t: t, replies: []error{fault}}

	err := a.Authenticate(context.Background(), session)

	require.Error(t, err)
	assert.Equal(t, fault, err)
	assert.Equal(t, 1, session.calls)
	prompter.AssertNumberOfCalls(t, "AskSecret", 0)
}

func TestPasswordRejectionIsTerminal(t *testing.T) {
	prompter := new(mocks.MockPrompter)
	prompter.On("AskSecret", "🔑 Password").Return("wrong", nil)

	a, out := newAuthenticator(t.TempDir(), prompter)
	session := &scriptedSession{t: t, replies: []error{remote.ErrAuthFailed}}

	err := a.Authenticate(context.Background(), session)

	assert.ErrorIs(t, err, remote.ErrAuthFailed)
	assert.Contains(t, out.String(), "❌ Password authentication failed")
	prompter.AssertNumberOfCalls(t, "AskSecret", 1)
}

func TestEmptyHomeGoesStraightToPassword(t *testing.T) {
	prompter := new(mocks.MockPrompter)
	prompter.On("AskSecret", "🔑 Password").Return("hunter2", nil)

	a, out := newAuthenticator("", prompter)
	session := &scriptedSession{t: t, replies: []error{nil}}

	require.NoError(t, a.Authenticate(context.Background(), session))

	assert.NotContains(t, out.String(), "Trying SSH key")
	assert.Equal(t, 1, session.calls)
}

func TestAuthenticateAgainstServerWithPassword(t *testing.T) {
	server := sshtest.Start(t, sshtest.PasswordConfig(t, "alice", "secret"))

	prompter := new(mocks.MockPrompter)
	prompter.On("AskSecret", "🔑 Password").Return("secret", nil)

	a, _ := newAuthenticator(t.TempDir(), prompter)
	session := remote.NewSession(server.Addr, "alice", zerolog.Nop())
	defer session.Close()
	require.NoError(t, session.Connect(context.Background()))

	require.NoError(t, a.Authenticate(context.Background(), session))
	assert.True(t, session.Authenticated())
}

func TestAuthenticateAgainstServerWithKeyFile(t *testing.T) {
	home := t.TempDir()
	signer := writeKey(t, home, "id_ed25519", "")
	server := sshtest.Start(t, sshtest.PublicKeyConfig(t, "alice", signer.PublicKey()))

	prompter := new(mocks.MockPrompter)

	a, out := newAuthenticator(home, prompter)
	session := remote.NewSession(server.Addr, "alice", zerolog.Nop())
	defer session.Close()

	require.NoError(t, a.Authenticate(context.Background(), session))
	assert.True(t, session.Authenticated())
	assert.Contains(t, out.String(), "✅ Authenticated with SSH key (no passphrase)")
}
