// Package watch re-runs the fragment tree whenever it changes (--watch).
//
// Every directory under the root is watched; directories created later are
// added as they appear. Bursts of events are collapsed: a run starts only
// after the tree has been quiet for [DefaultQuiet].
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/backmassage/shellwrapper/internal/logging"
	"github.com/backmassage/shellwrapper/internal/pipeline"
)

// DefaultQuiet is how long the tree must stay unchanged before a re-run.
const DefaultQuiet = 500 * time.Millisecond

// Watcher watches one fragment tree.
type Watcher struct {
	root  string
	quiet time.Duration
	log   *logging.Logger
	fsw   *fsnotify.Watcher
}

// New starts watching root and all directories below it.
func New(root string, quiet time.Duration, log *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	w := &Watcher{root: root, quiet: quiet, log: log, fsw: fsw}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree adds dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return pipeline.Walk(osfs.New(dir), dir, func(e pipeline.Entry, err error) error {
		if err != nil || !e.IsDir {
			return nil
		}
		if err := w.fsw.Add(e.Path); err != nil {
			w.log.Warn("Cannot watch %s: %v", e.Path, err)
		}
		return nil
	})
}

// Run blocks until ctx is done, calling onChange after every settled burst
// of changes. Events that arrive during onChange or within one quiet period
// after it (fragments writing into their own tree) are ignored so a run
// never triggers itself.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	var mutedUntil time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(ev) && time.Now().After(mutedUntil) {
				timer.Reset(w.quiet)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("Watch queue overflowed, re-running")
				timer.Reset(w.quiet)
				continue
			}
			w.log.Warn("Watch error: %v", err)

		case <-timer.C:
			w.log.Info("Change detected, re-running %s", w.root)
			onChange(ctx)
			mutedUntil = time.Now().Add(w.quiet)
		}
	}
}

// handle records ev, watching new directories, and reports whether it is
// a change that can schedule a run.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	w.log.Debug("watch: %s", ev)
	if ev.Has(fsnotify.Create) && isDir(ev.Name) {
		if err := w.addTree(ev.Name); err != nil {
			w.log.Warn("%v", err)
		}
	}
	return true
}

func isDir(path string) bool {
	fi, err := os.Lstat(path)
	return err == nil && fi.IsDir()
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
