// Package render formats the progress and hint lines shown while a project
// is scaffolded.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI bright colors.
const (
	colorStep = lipgloss.Color("10")
	colorWarn = lipgloss.Color("11")
	colorHint = lipgloss.Color("12")
)

// Printer writes styled lines to w. Colors are dropped when w is not a
// terminal.
type Printer struct {
	w    io.Writer
	step lipgloss.Style
	warn lipgloss.Style
	hint lipgloss.Style
}

// NewPrinter creates a Printer whose color profile is detected from w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:    w,
		step: r.NewStyle().Foreground(colorStep),
		warn: r.NewStyle().Foreground(colorWarn),
		hint: r.NewStyle().Foreground(colorHint).Bold(true),
	}
}

// Step prints a progress banner.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintln(p.w, p.step.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.warn.Render(fmt.Sprintf(format, args...)))
}

// Hint is a command the user is told to run, framed by plain text.
type Hint struct {
	Before  string
	Command string
	After   string
}

// Hints prints one line per hint with the command highlighted.
func (p *Printer) Hints(hints ...Hint) {
	for _, h := range hints {
		parts := make([]string, 0, 3)
		if h.Before != "" {
			parts = append(parts, p.step.Render(h.Before))
		}
		parts = append(parts, p.hint.Render(h.Command))
		if h.After != "" {
			parts = append(parts, p.step.Render(h.After))
		}
		fmt.Fprintln(p.w, strings.Join(parts, " "))
	}
}
