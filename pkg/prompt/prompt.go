// Package prompt collects interactive input from the operator.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the operator for values. Implementations must not cache
// answers: every call is a fresh question.
type Prompter interface {
	// Ask asks for a required value, re-asking until the answer is non-empty.
	Ask(label string) (string, error)
	// AskOptional asks once and accepts an empty answer.
	AskOptional(label string) (string, error)
	// AskSecret asks for a value without echoing it back.
	AskSecret(label string) (string, error)
}

// Terminal is a Prompter backed by a real terminal. Secret input is masked
// whenever stdin is a TTY; on pipes it degrades to a plain line read so the
// tool stays scriptable.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewTerminal builds a Terminal reading from in and echoing labels to out.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	fd := int(in.Fd())
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
		tty: term.IsTerminal(fd),
	}
}

func (t *Terminal) Ask(label string) (string, error) {
	for {
		fmt.Fprintf(t.out, "%s: ", label)
		answer, err := t.readLine()
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

func (t *Terminal) AskOptional(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	return t.readLine()
}

func (t *Terminal) AskSecret(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	if !t.tty {
		return t.readLine()
	}
	secret, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("reading secret input: %w", err)
	}
	return string(secret), nil
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
