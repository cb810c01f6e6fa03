// Package diag prints user-facing diagnostics. Every line goes to a single
// writer (stderr in production) and is prefixed with the marker glyph the
// release pipeline has always used, so existing CI log scrapers keep working.
package diag

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Glyph is the fixed marker prefixed to every diagnostic line.
const Glyph = "➜"

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Printer writes glyph-prefixed diagnostics, optionally styled.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer. The caller decides color: it is off when the
// user passed --no-color or set NO_COLOR.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Errorf prints an error diagnostic.
func (p *Printer) Errorf(format string, args ...interface{}) {
	p.print(errorStyle, fmt.Sprintf(format, args...))
}

// Infof prints an informational diagnostic.
func (p *Printer) Infof(format string, args ...interface{}) {
	p.print(infoStyle, fmt.Sprintf(format, args...))
}

func (p *Printer) print(style lipgloss.Style, msg string) {
	line := Glyph + " " + msg
	if p.color {
		line = style.Render(line)
	}
	fmt.Fprintln(p.out, line)
}
