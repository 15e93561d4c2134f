// Package ui renders the interactive narration lines of the tool.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const bannerRule = "====================================="

// Printer writes styled status lines to a terminal. The zero styles render
// plain text, so a Printer built with color disabled degrades cleanly on
// pipes and dumb terminals.
type Printer struct {
	out io.Writer

	rule    lipgloss.Style
	title   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	detail  lipgloss.Style
}

// New builds a Printer writing to out.
func New(out io.Writer, color bool) *Printer {
	p := &Printer{out: out}
	if !color {
		return p
	}
	p.rule = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	p.title = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	p.info = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	p.success = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	p.warn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	p.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	p.detail = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	return p
}

// Banner prints the framed tool header.
func (p *Printer) Banner(title string) {
	fmt.Fprintln(p.out, p.rule.Render(bannerRule))
	fmt.Fprintln(p.out, p.title.Render(title))
	fmt.Fprintln(p.out, p.rule.Render(bannerRule))
}

// Infof prints a progress-of-work line.
func (p *Printer) Infof(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.info.Render(fmt.Sprintf(format, args...)))
}

// Successf prints a completed-step line.
func (p *Printer) Successf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a recoverable-problem line.
func (p *Printer) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.warn.Render(fmt.Sprintf(format, args...)))
}

// Failf prints a failure headline followed by the error detail.
func (p *Printer) Failf(headline string, err error) {
	fmt.Fprintln(p.out, p.fail.Render(headline))
	if err != nil {
		fmt.Fprintln(p.out, p.detail.Render(err.Error()))
	}
}

// Blank prints an empty separator line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}
