// Package term resolves the color mode against the attached terminal.
//
// Nothing here is global: [Resolve] answers once during startup and the
// result is handed to the logger and the trace printer, which each build
// their own styles from it.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/backmassage/shellwrapper/internal/config"
)

// Resolve determines whether colors should be enabled for output written to
// f, based on the configured mode, TTY detection, and the NO_COLOR env var
// (https://no-color.org).
func Resolve(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(f) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// Profile maps the resolved color decision onto a termenv profile. Enabled
// output uses the basic 16-color palette the bright styles are drawn from.
func Profile(enabled bool) termenv.Profile {
	if enabled {
		return termenv.ANSI
	}
	return termenv.Ascii
}

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
