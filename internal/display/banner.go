// Package display renders the run trace: start/end markers, one line per
// visited entry, and a banner block around every executed fragment.
//
// The trace goes to stdout and is meant for humans; it has no stable schema.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/shellwrapper/internal/naming"
	"github.com/backmassage/shellwrapper/internal/term"
)

// TimeLayout is the timestamp format of trace markers, banners and log lines.
const TimeLayout = "2006-01-02 15:04:05"

// Divider frames every banner and precedes the end marker.
var Divider = strings.Repeat("=", 68)

// Printer writes the trace to a single writer. It is not safe for
// concurrent use; the dispatcher is sequential.
type Printer struct {
	w   io.Writer
	now func() time.Time

	divider lipgloss.Style
	label   lipgloss.Style
	entry   lipgloss.Style
	dry     lipgloss.Style
}

// NewPrinter returns a Printer writing to w. color selects styled output;
// when false every line is plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(term.Profile(color))

	return &Printer{
		w:       w,
		now:     time.Now,
		divider: r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		entry:   r.NewStyle().Foreground(lipgloss.Color("8")),
		dry:     r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// SetClock replaces the time source. Tests use it to freeze timestamps.
func (p *Printer) SetClock(now func() time.Time) { p.now = now }

// Timestamp formats the current time with [TimeLayout].
func (p *Printer) Timestamp() string {
	return p.now().Format(TimeLayout)
}

// Start prints the start marker.
func (p *Printer) Start() {
	p.line("Starting on " + p.Timestamp())
}

// Entry prints the trace line for a visited filesystem entry.
func (p *Printer) Entry(path string) {
	p.line(p.entry.Render("[ ] " + path))
}

// Banner prints the block announcing a fragment about to run.
func (p *Printer) Banner(kind naming.Kind, name string) {
	p.line(p.divider.Render(Divider))
	p.line(p.label.Render(KindLabel(kind)+":") + " " + name)
	p.line("TIME: " + p.Timestamp())
	p.line(p.divider.Render(Divider))
}

// DryRun notes that a bannered fragment was not executed.
func (p *Printer) DryRun(path string) {
	p.line(p.dry.Render("[DRY] would run " + path))
}

// End prints the closing divider and end marker.
func (p *Printer) End() {
	p.line(p.divider.Render(Divider))
	p.line("Ending on " + p.Timestamp())
}

// KindLabel is the banner label for a fragment kind.
func KindLabel(k naming.Kind) string {
	switch k {
	case naming.KindIsolated:
		return "SUBSHELL"
	case naming.KindShared:
		return "EXPORTSHELL"
	}
	return strings.ToUpper(k.String())
}

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}
