package prompt

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(t *testing.T, input string) (*Terminal, *bytes.Buffer) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	return NewTerminal(r, &out), &out
}

func TestAskTrimsWhitespace(t *testing.T) {
	term, out := newTestTerminal(t, "  report.pdf  \n")

	answer, err := term.Ask("📁 Local file path")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", answer)
	assert.Contains(t, out.String(), "📁 Local file path: ")
}

func TestAskReasksUntilNonEmpty(t *testing.T) {
	term, out := newTestTerminal(t, "\n\nexample.com\n")

	answer, err := term.Ask("🌐 Remote host")
	require.NoError(t, err)
	assert.Equal(t, "example.com", answer)
	assert.Equal(t, 3, strings.Count(out.String(), "🌐 Remote host: "))
}

func TestAskOptionalAcceptsEmpty(t *testing.T) {
	term, _ := newTestTerminal(t, "\n")

	answer, err := term.AskOptional("🔌 Port")
	require.NoError(t, err)
	assert.Empty(t, answer)
}

func TestAskSecretReadsPlainLineOnPipe(t *testing.T) {
	// os.Pipe is not a TTY, so the masked path is skipped.
	term, _ := newTestTerminal(t, "hunter2\n")

	answer, err := term.AskSecret("🔑 Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", answer)
}

func TestAskFailsOnClosedInput(t *testing.T) {
	term, _ := newTestTerminal(t, "")

	_, err := term.Ask("👤 Username")
	assert.Error(t, err)
}

func TestAskAcceptsLineWithoutTrailingNewline(t *testing.T) {
	term, _ := newTestTerminal(t, "alice")

	answer, err := term.Ask("👤 Username")
	require.NoError(t, err)
	assert.Equal(t, "alice", answer)
}
