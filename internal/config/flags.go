package config

// This file binds CLI flags onto a Config. Flags are grouped into
// interpreter, grammar, behavior, display, and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults
// hold unless set.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flag names shared between binding and the config-file overlay, which must
// not override a value the user set explicitly on the command line.
const (
	FlagConfig      = "config"
	FlagBaseDir     = "base-dir"
	FlagIsolatedCmd = "isolated-cmd"
	FlagSharedShell = "shared-shell"
	FlagSourceCmd   = "source-cmd"
	FlagIsolatedExt = "isolated-ext"
	FlagSharedExt   = "shared-ext"
	FlagDryRun      = "dry-run"
	FlagWatch       = "watch"
	FlagCheck       = "check"
	FlagColor       = "color"
	FlagNoColor     = "no-color"
	FlagVerbose     = "verbose"
	FlagLog         = "log"
	FlagVersion     = "version"
)

// NegatedFlags holds boolean flags that are applied after Parse.
type NegatedFlags struct {
	forceColor bool
	noColor    bool
}

// BindFlags registers every flag on fs, writing straight into cfg. The
// returned NegatedFlags must be passed to [ApplyNegatedFlags] after Parse.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *NegatedFlags {
	n := &NegatedFlags{}
	defineInterpreterFlags(fs, cfg)
	defineGrammarFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, n)
	defineUtilityFlags(fs, cfg)
	return n
}

// defineInterpreterFlags registers --isolated-cmd, --shared-shell, --source-cmd.
func defineInterpreterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.IsolatedCommand, FlagIsolatedCmd, cfg.IsolatedCommand, "Interpreter for isolated fragments (path is appended)")
	fs.StringVar(&cfg.SharedShell, FlagSharedShell, cfg.SharedShell, "Shell hosting environment-sharing fragments")
	fs.StringVar(&cfg.SourceCommand, FlagSourceCmd, cfg.SourceCommand, "Builtin used to source environment-sharing fragments")
}

// defineGrammarFlags registers --isolated-ext and --shared-ext.
func defineGrammarFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.IsolatedExt, FlagIsolatedExt, cfg.IsolatedExt, "Extension of isolated fragments")
	fs.StringVar(&cfg.SharedExt, FlagSharedExt, cfg.SharedExt, "Extension of environment-sharing fragments")
}

// defineBehaviorFlags registers --dry-run, --watch, --base-dir, --config.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.DryRun, FlagDryRun, "n", false, "Print banners but do not run fragments")
	fs.BoolVarP(&cfg.Watch, FlagWatch, "w", false, "Re-run whenever the fragment tree changes")
	fs.StringVar(&cfg.BaseDir, FlagBaseDir, "", "Resolve the fragment directory from here (default: program directory)")
	fs.StringVar(&cfg.ConfigFile, FlagConfig, "", "Config file (default: $XDG_CONFIG_HOME/shellwrapper/config.yaml)")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *NegatedFlags) {
	fs.BoolVar(&n.forceColor, FlagColor, false, "Force colored output")
	fs.BoolVar(&n.noColor, FlagNoColor, false, "Disable colored output")
	fs.BoolVarP(&cfg.Verbose, FlagVerbose, "v", false, "Verbose diagnostics")
	fs.BoolVarP(&cfg.CheckOnly, FlagCheck, "c", false, "Check interpreters and exit")
	fs.StringVarP(&cfg.LogFile, FlagLog, "l", "", "Append diagnostics to file")
}

// defineUtilityFlags registers --version. Printing is handled by cobra.
func defineUtilityFlags(fs *pflag.FlagSet, _ *Config) {
	fs.BoolP(FlagVersion, "V", false, "Print version and exit")
}

// ApplyNegatedFlags copies negated and override flag values into cfg.
func ApplyNegatedFlags(cfg *Config, n *NegatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// ApplyPositionalArgs sets FragmentDir and Tags from the positional args.
// Missing arguments are left for [Config.Validate] to report.
func ApplyPositionalArgs(cfg *Config, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("too many arguments: %q", strings.Join(args[2:], " "))
	}
	if len(args) >= 1 {
		cfg.FragmentDir = NormalizeDirArg(args[0])
	}
	if len(args) == 2 {
		cfg.Tags = ParseTags(args[1])
	}
	return nil
}
