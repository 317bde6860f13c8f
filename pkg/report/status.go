package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes one-line status messages, colored by severity.
type Printer struct {
	w       io.Writer
	quiet   bool
	noColor bool
}

// NewPrinter creates a printer. A quiet printer only reports warnings and
// errors.
func NewPrinter(w io.Writer, quiet, noColor bool) *Printer {
	return &Printer{w: w, quiet: quiet, noColor: noColor}
}

// Info reports progress.
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}

	p.print(color.FgCyan, "", format, args...)
}

// Success reports a finished step.
func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}

	p.print(color.FgGreen, "✓ ", format, args...)
}

// Warn reports a recoverable problem.
func (p *Printer) Warn(format string, args ...any) {
	p.print(color.FgYellow, "! ", format, args...)
}

// Error reports a failure.
func (p *Printer) Error(format string, args ...any) {
	p.print(color.FgRed, "✗ ", format, args...)
}

func (p *Printer) print(attr color.Attribute, prefix, format string, args ...any) {
	c := color.New(attr)
	if p.noColor {
		c.DisableColor()
	}

	c.Fprintf(p.w, "%s%s\n", prefix, fmt.Sprintf(format, args...))
}
