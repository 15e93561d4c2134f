package remote

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

const dialTimeout = 30 * time.Second

// Session owns the network connection to the remote host. It starts
// unauthenticated; Authenticate promotes it with the first accepted
// credential, and Client refuses to hand out the connection before that.
//
// x/crypto/ssh authenticates inside the handshake, so every Authenticate
// call is a full handshake carrying exactly one method. The TCP connection
// probed by Connect feeds the first attempt; later attempts redial.
type Session struct {
	addr    string
	user    string
	timeout time.Duration
	logger  zerolog.Logger

	probed net.Conn
	client *ssh.Client
}

// NewSession prepares a session for addr as user. No network traffic happens
// until Connect.
func NewSession(addr, user string, logger zerolog.Logger) *Session {
	return &Session{
		addr:    addr,
		user:    user,
		timeout: dialTimeout,
		logger:  logger.With().Str("addr", addr).Str("user", user).Logger(),
	}
}

// Connect verifies the host is reachable. The probed connection is kept for
// the first authentication attempt.
func (s *Session) Connect(ctx context.Context) error {
	d := net.Dialer{Timeout: s.timeout}
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return WrapError("tcp", "connect", fmt.Errorf("%w: %v", ErrConnFailed, err))
	}
	s.logger.Debug().Msg("tcp connection established")
	s.probed = conn
	return nil
}

// Authenticate performs one handshake attempt with a single credential.
// A server refusal comes back wrapped in ErrAuthFailed; anything else is a
// transport fault wrapped in ErrConnFailed. On success the session keeps the
// resulting client and further calls are no-ops.
func (s *Session) Authenticate(ctx context.Context, method ssh.AuthMethod) error {
	if s.client != nil {
		return nil
	}

	conn := s.probed
	s.probed = nil
	if conn == nil {
		d := net.Dialer{Timeout: s.timeout}
		c, err := d.DialContext(ctx, "tcp", s.addr)
		if err != nil {
			return WrapError("tcp", "dial", fmt.Errorf("%w: %v", ErrConnFailed, err))
		}
		conn = c
	}

	clientConfig := &ssh.ClientConfig{
		User:            s.user,
		Auth:            []ssh.AuthMethod{method},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: Add host key verification
		Timeout:         s.timeout,
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, s.addr, clientConfig)
	if err != nil {
		conn.Close()
		if IsAuthRejection(err) {
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		return WrapError("ssh", "handshake", fmt.Errorf("%w: %v", ErrConnFailed, err))
	}

	s.logger.Debug().Msg("ssh handshake complete")
	s.client = ssh.NewClient(sshConn, chans, reqs)
	return nil
}

// Authenticated reports whether an Authenticate call has succeeded.
func (s *Session) Authenticated() bool {
	return s.client != nil
}

// Client returns the authenticated SSH client.
func (s *Session) Client() (*ssh.Client, error) {
	if s.client == nil {
		return nil, ErrNotAuthenticated
	}
	return s.client, nil
}

// User returns the login name the session authenticates as.
func (s *Session) User() string {
	return s.user
}

// Close releases the connection, whichever stage it reached.
func (s *Session) Close() error {
	if s.probed != nil {
		s.probed.Close()
		s.probed = nil
	}
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
