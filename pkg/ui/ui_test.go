package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	p.Banner("🔐 Interactive SCP File Transfer Tool")
	p.Infof("🔗 Connecting to %s...", "example.com:22")
	p.Successf("✅ Done")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, bannerRule, lines[0])
	assert.Equal(t, "🔐 Interactive SCP File Transfer Tool", lines[1])
	assert.Equal(t, bannerRule, lines[2])
	assert.Equal(t, "🔗 Connecting to example.com:22...", lines[3])
	assert.Equal(t, "✅ Done", lines[4])
}

func TestPrinterFailfIncludesDetail(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	p.Failf("❌ Transfer failed:", errors.New("connection reset"))

	assert.Contains(t, buf.String(), "❌ Transfer failed:\n")
	assert.Contains(t, buf.String(), "connection reset\n")
}

func TestPrinterFailfWithoutDetail(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	p.Failf("❌ Authentication failed", nil)

	assert.Equal(t, "❌ Authentication failed\n", buf.String())
}
