package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	barWidth       = 40
	redrawInterval = 100 * time.Millisecond
)

// Bar is a single-line terminal progress bar:
//
//	[00:00:12] [####################>-------------------] 12 MiB/20 MiB (4s)
//
// Redraws are throttled so fast links do not flood the terminal, but the
// final chunk and Finish always render.
type Bar struct {
	out     io.Writer
	total   uint64
	current uint64
	started time.Time
	last    time.Time

	filled lipgloss.Style
	rest   lipgloss.Style
}

// NewBar builds a Bar writing to out.
func NewBar(out io.Writer, color bool) *Bar {
	b := &Bar{out: out}
	if color {
		b.filled = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
		b.rest = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	}
	return b
}

func (b *Bar) Start(total uint64) {
	b.total = total
	b.current = 0
	b.started = time.Now()
	b.last = time.Time{}
	b.draw(true)
}

func (b *Bar) Update(transferred uint64) {
	b.current = transferred
	b.draw(b.current >= b.total)
}

func (b *Bar) Finish() {
	b.draw(true)
	fmt.Fprintln(b.out)
}

func (b *Bar) draw(force bool) {
	now := time.Now()
	if !force && now.Sub(b.last) < redrawInterval {
		return
	}
	b.last = now
	fmt.Fprintf(b.out, "\r%s", b.line(now))
}

func (b *Bar) line(now time.Time) string {
	cells := renderCells(b.current, b.total, barWidth)
	split := strings.IndexByte(cells, '-')
	var bar string
	if split < 0 {
		bar = b.filled.Render(cells)
	} else {
		bar = b.filled.Render(cells[:split]) + b.rest.Render(cells[split:])
	}

	return fmt.Sprintf("[%s] [%s] %s/%s (%s)",
		formatClock(now.Sub(b.started)),
		bar,
		humanize.IBytes(b.current),
		humanize.IBytes(b.total),
		b.eta(now),
	)
}

func (b *Bar) eta(now time.Time) string {
	if b.current == 0 || b.total == 0 {
		return "--"
	}
	if b.current >= b.total {
		return "0s"
	}
	elapsed := now.Sub(b.started)
	if elapsed <= 0 {
		return "--"
	}
	rate := float64(b.current) / elapsed.Seconds()
	remaining := time.Duration(float64(b.total-b.current) / rate * float64(time.Second))
	return remaining.Round(time.Second).String()
}

// renderCells lays out the bar interior: '#' for transferred, '>' at the
// leading edge, '-' for the remainder.
func renderCells(current, total uint64, width int) string {
	if total == 0 {
		return strings.Repeat("#", width)
	}
	cells := int(uint64(width) * current / total)
	if cells > width {
		cells = width
	}
	switch {
	case cells == 0:
		return strings.Repeat("-", width)
	case cells == width:
		return strings.Repeat("#", width)
	default:
		return strings.Repeat("#", cells-1) + ">" + strings.Repeat("-", width-cells)
	}
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
