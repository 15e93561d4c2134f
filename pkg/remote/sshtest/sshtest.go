// Package sshtest runs an in-process SSH server for handshake tests.
package sshtest

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net"
	"testing"

	"golang.org/x/crypto/ssh"
)

// Server is a minimal in-process SSH endpoint. It completes handshakes and
// rejects every channel, which is all the authentication tests need.
type Server struct {
	Addr string
	ln   net.Listener
}

// HostSigner generates a throwaway ed25519 host key.
func HostSigner(t *testing.T) ssh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating host key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("building host signer: %v", err)
	}
	return signer
}

// ClientSigner generates a throwaway ed25519 client key pair.
func ClientSigner(t *testing.T) ssh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating client key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("building client signer: %v", err)
	}
	return signer
}

// Start serves config on a loopback port until the test ends.
func Start(t *testing.T, config *ssh.ServerConfig) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	s := &Server{Addr: ln.Addr().String(), ln: ln}
	go s.serve(config)
	return s
}

func (s *Server) serve(config *ssh.ServerConfig) {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go func() {
			sconn, chans, reqs, err := ssh.NewServerConn(conn, config)
			if err != nil {
				conn.Close()
				return
			}
			go ssh.DiscardRequests(reqs)
			for ch := range chans {
				ch.Reject(ssh.UnknownChannelType, "not implemented")
			}
			sconn.Close()
		}()
	}
}

// PasswordConfig builds a server config accepting exactly one user/password
// pair.
func PasswordConfig(t *testing.T, user, password string) *ssh.ServerConfig {
	t.Helper()
	config := &ssh.ServerConfig{
		PasswordCallback: func(meta ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if meta.User() == user && string(pass) == password {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown credentials for %q", meta.User())
		},
	}
	config.AddHostKey(HostSigner(t))
	return config
}

// PublicKeyConfig builds a server config accepting exactly one client key
// for user.
func PublicKeyConfig(t *testing.T, user string, authorized ssh.PublicKey) *ssh.ServerConfig {
	t.Helper()
	marshaled := authorized.Marshal()
	config := &ssh.ServerConfig{
		PublicKeyCallback: func(meta ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if meta.User() == user && string(key.Marshal()) == string(marshaled) {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown key for %q", meta.User())
		},
	}
	config.AddHostKey(HostSigner(t))
	return config
}
