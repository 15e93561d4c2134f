// Package config assembles the transfer configuration from flag seeds and
// interactive prompts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/byte3-it/iscp/pkg/prompt"
	"github.com/byte3-it/iscp/pkg/ui"
)

// DefaultPort is used when the operator leaves the port empty or types
// something that does not parse.
const DefaultPort uint16 = 22

var (
	ErrFileNotFound = errors.New("local file does not exist")
	ErrNotRegular   = errors.New("local path is not a regular file")
	ErrInvalidPort  = errors.New("invalid port number")
)

// TransferConfig describes one file transfer. It is immutable once Collect
// returns it.
type TransferConfig struct {
	LocalFile  string
	RemoteHost string
	Port       uint16
	RemotePath string
	Username   string
}

// Addr returns the dial address for the remote host.
func (c *TransferConfig) Addr() string {
	return net.JoinHostPort(c.RemoteHost, strconv.Itoa(int(c.Port)))
}

// Seed carries flag-provided answers. A non-empty field suppresses the
// matching prompt.
type Seed struct {
	LocalFile  string
	RemoteHost string
	Port       string
	Username   string
	RemotePath string
}

// Collect walks the operator through the questions the transfer needs,
// skipping any answered by the seed. The local file is validated before any
// further question so a typo fails fast.
func Collect(prompter prompt.Prompter, out *ui.Printer, seed Seed) (*TransferConfig, error) {
	localFile := seed.LocalFile
	if localFile == "" {
		answer, err := prompter.Ask("📁 Local file path")
		if err != nil {
			return nil, err
		}
		localFile = answer
	}
	if err := checkLocalFile(localFile); err != nil {
		return nil, err
	}

	host := seed.RemoteHost
	if host == "" {
		answer, err := prompter.Ask("🌐 Remote host (e.g., example.com or 192.168.1.100)")
		if err != nil {
			return nil, err
		}
		host = answer
	}

	portInput := seed.Port
	if portInput == "" {
		answer, err := prompter.AskOptional("🔌 Port (optional, press Enter for default 22)")
		if err != nil {
			return nil, err
		}
		portInput = answer
	}
	port, err := ParsePort(portInput)
	if err != nil {
		out.Warnf("❌ Invalid port number, using default 22")
		port = DefaultPort
	}

	username := seed.Username
	if username == "" {
		answer, err := prompter.Ask("👤 Username")
		if err != nil {
			return nil, err
		}
		username = answer
	}

	remotePath := seed.RemotePath
	if remotePath == "" {
		def := DefaultRemotePath(username, localFile)
		answer, err := prompter.AskOptional(fmt.Sprintf("📂 Remote path (optional, press Enter for default: %s)", def))
		if err != nil {
			return nil, err
		}
		remotePath = answer
		if remotePath == "" {
			remotePath = def
		}
	}

	return &TransferConfig{
		LocalFile:  localFile,
		RemoteHost: host,
		Port:       port,
		RemotePath: remotePath,
		Username:   username,
	}, nil
}

// ParsePort parses a TCP port, returning DefaultPort for empty input.
func ParsePort(s string) (uint16, error) {
	if s == "" {
		return DefaultPort, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	return uint16(n), nil
}

// DefaultRemotePath is where the file lands when the operator does not pick
// a destination: the user's home directory, keeping the local basename.
func DefaultRemotePath(username, localFile string) string {
	return fmt.Sprintf("/home/%s/%s", username, filepath.Base(localFile))
}

func checkLocalFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("checking local file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	return nil
}
