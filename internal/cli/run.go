package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/backmassage/shellwrapper/internal/check"
	"github.com/backmassage/shellwrapper/internal/config"
	"github.com/backmassage/shellwrapper/internal/display"
	"github.com/backmassage/shellwrapper/internal/logging"
	"github.com/backmassage/shellwrapper/internal/pipeline"
	"github.com/backmassage/shellwrapper/internal/shell"
	"github.com/backmassage/shellwrapper/internal/term"
	"github.com/backmassage/shellwrapper/internal/watch"
)

func run(cmd *cobra.Command, cfg *config.Config, negated *config.NegatedFlags, args []string, stdout, stderr io.Writer) error {
	// Phase 1: Bootstrap. No logger yet; errors are returned to Execute.
	if err := config.ApplyPositionalArgs(cfg, args); err != nil {
		return failf("%v", err)
	}
	if cfg.FragmentDir == "" && !cfg.CheckOnly {
		fmt.Fprintln(stdout, MissingDirMessage)
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, cmd.UsageString())
		return &ExitError{Code: ExitFailure}
	}

	if err := loadConfigFile(cmd, cfg); err != nil {
		return err
	}
	config.ApplyNegatedFlags(cfg, negated)
	if err := cfg.Validate(); err != nil {
		return failf("%v", err)
	}

	log, err := logging.New(cfg, stderr, term.Resolve(cfg.ColorMode, fileOf(stderr)),
		zap.String("run", uuid.NewString()))
	if err != nil {
		return failf("%v", err)
	}
	defer log.Close()

	// Phase 2: Logger available.
	if cfg.CheckOnly {
		if err := check.RunCheck(cfg, log); err != nil {
			return &ExitError{Code: ExitFailure}
		}
		return nil
	}
	if err := check.CheckDeps(cfg); err != nil {
		// Fragments would fail one by one; say so once up front.
		log.Warn("%v", err)
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		if baseDir, err = programDir(); err != nil {
			log.Error("Cannot locate program directory: %v", err)
			return &ExitError{Code: ExitFailure}
		}
	}

	// Phase 3: Signal handling. The running fragment receives the signal
	// itself; the dispatcher stops before the next entry.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inv, err := pipeline.Resolve(baseDir, cfg.FragmentDir, cfg.Tags)
	if err != nil {
		log.Error("%v", err)
		return &ExitError{Code: ExitFailure}
	}
	log.Debug("Root %s, tags %q, origin %s", inv.Root, inv.Tags, inv.OriginDir)
	if cfg.DryRun {
		log.Warn("DRY RUN: fragments will not be executed")
	}

	// Phase 4: Run.
	runner := shell.NewRunner(cfg)
	runner.Stdout = stdout
	runner.Stderr = stderr
	printer := display.NewPrinter(stdout, term.Resolve(cfg.ColorMode, fileOf(stdout)))
	d := pipeline.NewDispatcher(cfg, runner, printer, log)

	stats := d.Run(ctx, inv)
	if !cfg.Watch || stats.Interrupted {
		return nil
	}
	return watchTree(ctx, d, inv, log)
}

// watchTree re-runs the tree on every settled change until ctx is done.
func watchTree(ctx context.Context, d *pipeline.Dispatcher, inv *pipeline.Invocation, log *logging.Logger) error {
	w, err := watch.New(inv.Root, watch.DefaultQuiet, log)
	if err != nil {
		log.Error("%v", err)
		return &ExitError{Code: ExitFailure}
	}
	defer w.Close()

	log.Info("Watching %s (Ctrl-C to stop)", inv.Root)
	return w.Run(ctx, func(ctx context.Context) {
		if err := os.Chdir(inv.Root); err != nil {
			log.Warn("Cannot enter %s: %v", inv.Root, err)
			return
		}
		d.Run(ctx, inv)
	})
}

// loadConfigFile overlays the explicit or XDG config file onto cfg. A
// missing default file is not an error; a missing explicit one is.
func loadConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	path := cfg.ConfigFile
	if path == "" {
		path = config.DefaultConfigFile()
	}
	if path == "" {
		return nil
	}
	f, err := config.LoadFile(path)
	if err != nil {
		return failf("%v", err)
	}
	config.ApplyFile(cfg, f, cmd.Flags().Changed)
	return nil
}

// programDir returns the symlink-resolved directory of the running binary.
func programDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// fileOf returns w as an *os.File for TTY detection, or nil.
func fileOf(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
