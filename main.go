// Package main is the entrypoint for the iscp CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	// Import protocol engines to register them
	_ "github.com/byte3-it/iscp/pkg/remote/scp"
	_ "github.com/byte3-it/iscp/pkg/remote/sftp"

	"github.com/byte3-it/iscp/pkg/auth"
	"github.com/byte3-it/iscp/pkg/config"
	"github.com/byte3-it/iscp/pkg/logger"
	"github.com/byte3-it/iscp/pkg/progress"
	"github.com/byte3-it/iscp/pkg/prompt"
	"github.com/byte3-it/iscp/pkg/remote"
	"github.com/byte3-it/iscp/pkg/transfer"
	"github.com/byte3-it/iscp/pkg/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	flagFile       string
	flagHost       string
	flagPort       string
	flagUser       string
	flagRemotePath string
	flagProtocol   string
	logLevel       string
	logFormat      string
	noColor        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "iscp",
	Short: "Interactive SCP file transfer tool",
	Long: `iscp sends a single local file to a remote host over SSH.

It asks for anything it was not told on the command line: the local file,
the remote host and port, the username and the destination path. SSH keys
from ~/.ssh are tried first, then it falls back to a password prompt.

Examples:
  iscp
  iscp --file report.pdf --host example.com --user alice
  iscp --protocol sftp --file backup.tar.gz --host 192.168.1.100 --user deploy`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.NoArgs,
	RunE:    runTransfer,
}

func init() {
	rootCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Local file to send (prompted when omitted)")
	rootCmd.Flags().StringVarP(&flagHost, "host", "H", "", "Remote host (prompted when omitted)")
	rootCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Remote SSH port (default 22)")
	rootCmd.Flags().StringVarP(&flagUser, "user", "u", "", "Remote username (prompted when omitted)")
	rootCmd.Flags().StringVarP(&flagRemotePath, "remote-path", "r", "", "Destination path on the remote host")
	rootCmd.Flags().StringVar(&flagProtocol, "protocol", "scp", "Transfer protocol (scp or sftp)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "console", "Log format (console or json)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func runTransfer(cmd *cobra.Command, args []string) error {
	logger.Init(logLevel, logFormat)
	log := logger.Get()

	if !protocolKnown(flagProtocol) {
		return fmt.Errorf("unknown protocol %q, pick one of %v", flagProtocol, remote.Protocols())
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	color := interactive && !noColor

	out := ui.New(os.Stdout, color)
	errOut := ui.New(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())) && !noColor)

	out.Banner("🔐 Interactive SCP File Transfer Tool")

	prompter := prompt.NewTerminal(os.Stdin, os.Stdout)

	cfg, err := config.Collect(prompter, out, config.Seed{
		LocalFile:  flagFile,
		RemoteHost: flagHost,
		Port:       flagPort,
		Username:   flagUser,
		RemotePath: flagRemotePath,
	})
	if err != nil {
		if errors.Is(err, config.ErrFileNotFound) || errors.Is(err, config.ErrNotRegular) {
			errOut.Failf("❌ Local file does not exist!", nil)
			log.Error().Err(err).Msg("configuration failed")
			os.Exit(1)
		}
		return fmt.Errorf("reading configuration: %w", err)
	}

	// Cancel the transfer loop on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
		cancel()
	}()

	out.Blank()
	out.Infof("🔗 Connecting to remote host...")

	session := remote.NewSession(cfg.Addr(), cfg.Username, *log)
	defer session.Close()

	if err := session.Connect(ctx); err != nil {
		fail(errOut, log, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.Debug().Err(err).Msg("home directory unavailable, skipping key discovery")
		home = ""
	}

	authenticator := auth.New(home, prompter, out, *log)
	if err := authenticator.Authenticate(ctx, session); err != nil {
		fail(errOut, log, err)
	}

	out.Successf("✅ Connected and authenticated successfully!")
	out.Infof("📤 Starting file transfer...")

	copier, err := remote.NewCopier(flagProtocol, session, *log)
	if err != nil {
		fail(errOut, log, err)
	}

	var reporter progress.Reporter
	if interactive {
		reporter = progress.NewBar(os.Stdout, color)
	} else {
		reporter = progress.NewLogReporter(*log)
	}

	if err := transfer.New(copier, reporter, *log).Transfer(ctx, cfg); err != nil {
		fail(errOut, log, err)
	}

	out.Blank()
	out.Successf("✅ File transfer completed successfully!")
	return nil
}

func protocolKnown(name string) bool {
	for _, p := range remote.Protocols() {
		if p == name {
			return true
		}
	}
	return false
}

// fail prints the styled failure and exits. The deferred session close does
// not run, the process exit tears the socket down anyway.
func fail(out *ui.Printer, log *zerolog.Logger, err error) {
	out.Blank()
	out.Failf("❌ Transfer failed:", err)
	log.Error().Err(err).Msg("transfer failed")
	os.Exit(1)
}
