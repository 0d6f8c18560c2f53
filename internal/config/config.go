// Package config holds runtime configuration: defaults, flag binding, config
// file loading, and validation. Defaults reproduce the legacy PHP wrapper
// (bash -e for subshells, source for export shells).
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Validation errors returned by [Config.Validate].
var (
	ErrMissingFragmentDir = errors.New("the first argument is mandatory, as it is the directory to call the shell files from")
	ErrEmptyCommand       = errors.New("interpreter command must not be empty")
	ErrSameExtension      = errors.New("isolated and shared extensions must differ")
)

var reWordOnly = regexp.MustCompile(`^\w+$`)

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// overlaid by a config file ([ApplyFile]) and finally by CLI flags. After
// validation it is treated as read-only and passed by pointer.
type Config struct {
	// Positional arguments.
	FragmentDir string   // Directory holding the fragments, relative to BaseDir.
	Tags        []string // Active tags; empty means only untagged fragments run.

	// Locations.
	BaseDir    string // Program location. Empty: resolved from os.Executable.
	ConfigFile string // Explicit config file. Empty: XDG search.

	// Interpreters.
	IsolatedCommand string // Default: "bash -e". Fragment path is appended.
	SharedShell     string // Default: "bash". Hosts the source command.
	SourceCommand   string // Default: "source".

	// Naming grammar.
	IsolatedExt string // Default: "sh".
	SharedExt   string // Default: "export".

	// Behavior flags.
	DryRun    bool
	Watch     bool
	CheckOnly bool // Run --check diagnostics and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// wrapper. Used as the base before the config file and flags are applied.
func DefaultConfig() Config {
	return Config{
		IsolatedCommand: "bash -e",
		SharedShell:     "bash",
		SourceCommand:   "source",
		IsolatedExt:     "sh",
		SharedExt:       "export",
		ColorMode:       ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ParseTags splits a comma-separated tag list and trims each token.
// An empty or all-blank argument yields no tags. Order is preserved.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

// IsolatedArgv returns the isolated interpreter command split into argv form.
func (c *Config) IsolatedArgv() []string {
	return strings.Fields(c.IsolatedCommand)
}

// Validate checks interpreter commands, grammar extensions and the color
// mode. When not in CheckOnly mode it also requires the fragment directory.
func (c *Config) Validate() error {
	if len(c.IsolatedArgv()) == 0 {
		return fmt.Errorf("isolated command: %w", ErrEmptyCommand)
	}
	if strings.TrimSpace(c.SharedShell) == "" {
		return fmt.Errorf("shared shell: %w", ErrEmptyCommand)
	}
	if strings.TrimSpace(c.SourceCommand) == "" {
		return fmt.Errorf("source command: %w", ErrEmptyCommand)
	}

	for _, ext := range []string{c.IsolatedExt, c.SharedExt} {
		if !reWordOnly.MatchString(ext) {
			return fmt.Errorf("invalid extension %q (use letters, digits or underscore)", ext)
		}
	}
	if c.IsolatedExt == c.SharedExt {
		return ErrSameExtension
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}
	if c.FragmentDir == "" {
		return ErrMissingFragmentDir
	}
	return nil
}
