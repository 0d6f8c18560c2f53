package pipeline

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/backmassage/shellwrapper/internal/config"
	"github.com/backmassage/shellwrapper/internal/display"
	"github.com/backmassage/shellwrapper/internal/logging"
	"github.com/backmassage/shellwrapper/internal/naming"
	"github.com/backmassage/shellwrapper/internal/shell"
)

// Executor runs a single fragment to completion.
type Executor interface {
	RunIsolated(path string) shell.Result
	RunShared(path string) shell.Result
}

// Dispatcher walks a fragment tree and runs every selected fragment in
// order. It holds no per-run state and may be reused across runs.
type Dispatcher struct {
	Grammar *naming.Grammar
	Exec    Executor
	Printer *display.Printer
	Log     *logging.Logger
	DryRun  bool

	// FS opens the traversal root. Nil means osfs.New.
	FS func(root string) billy.Filesystem
}

// NewDispatcher wires a Dispatcher from cfg.
func NewDispatcher(cfg *config.Config, exec Executor, p *display.Printer, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		Grammar: naming.NewGrammar(cfg.IsolatedExt, cfg.SharedExt),
		Exec:    exec,
		Printer: p,
		Log:     log,
		DryRun:  cfg.DryRun,
	}
}

// Run performs one pass over inv.Root. The process must already be in
// inv.Root (see Resolve). Fragment failures never stop the loop. A
// cancelled ctx stops the walk before the next entry; the end marker and
// the origin directory are restored either way.
func (d *Dispatcher) Run(ctx context.Context, inv *Invocation) RunStats {
	var stats RunStats
	start := time.Now()

	d.Printer.Start()

	err := Walk(d.openRoot(inv.Root), inv.Root, func(e Entry, err error) error {
		if err != nil {
			d.Log.Warn("Cannot list %s: %v", e.Path, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.visit(inv, e, &stats)
		return nil
	})
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		stats.Interrupted = true
		d.Log.Warn("Interrupted, remaining fragments skipped")
	case err != nil:
		d.Log.Error("Fragment discovery failed: %v", err)
	}

	d.Printer.End()

	if err := os.Chdir(inv.OriginDir); err != nil {
		d.Log.Warn("Cannot return to %s: %v", inv.OriginDir, err)
	}

	d.Log.Debug("Visited %d, matched %d, executed %d (isolated %d, shared %d), skipped by tag %d, failed %d in %s",
		stats.Visited, stats.Matched, stats.Executed(), stats.Isolated, stats.Shared, stats.SkippedTag, stats.Failed,
		display.FormatElapsed(time.Since(start)))
	return stats
}

func (d *Dispatcher) visit(inv *Invocation, e Entry, stats *RunStats) {
	stats.Visited++
	d.Printer.Entry(e.Path)

	if e.IsDir {
		return
	}
	frag, ok := d.Grammar.Parse(e.Path)
	if !ok {
		return
	}
	stats.Matched++
	if !inv.Selected(frag) {
		stats.SkippedTag++
		return
	}

	d.Printer.Banner(frag.Kind, frag.Name)
	if d.DryRun {
		d.Printer.DryRun(frag.Path)
		countKind(stats, frag.Kind)
		return
	}

	switch frag.Kind {
	case naming.KindIsolated:
		// Working directory intentionally left as the fragment found it.
		d.report(frag, d.Exec.RunIsolated(frag.Path), stats)
	case naming.KindShared:
		d.report(frag, d.Exec.RunShared(frag.Path), stats)
		if err := os.Chdir(inv.Root); err != nil {
			d.Log.Warn("Cannot return to %s: %v", inv.Root, err)
		}
	}
	countKind(stats, frag.Kind)
}

func countKind(stats *RunStats, k naming.Kind) {
	switch k {
	case naming.KindIsolated:
		stats.Isolated++
	case naming.KindShared:
		stats.Shared++
	}
}

// report logs the outcome at debug level only; the trace stays unchanged
// whatever the fragment returns.
func (d *Dispatcher) report(frag naming.Fragment, res shell.Result, stats *RunStats) {
	if res.Err != nil {
		stats.Failed++
		d.Log.Debug("%s %s exited %d: %v", frag.Kind, frag.Name, res.ExitCode, res.Err)
	}
	if res.EnvErr != nil {
		d.Log.Warn("%s: %v", frag.Name, res.EnvErr)
	}
	if !res.Env.Empty() {
		d.Log.Debug("%s exported %v, unset %v", frag.Name, res.Env.Set, res.Env.Unset)
	}
}

func (d *Dispatcher) openRoot(root string) billy.Filesystem {
	if d.FS != nil {
		return d.FS(root)
	}
	return osfs.New(root)
}
