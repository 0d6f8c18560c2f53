package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/shellwrapper/internal/naming"
)

// ErrResolveRoot is returned when the traversal root cannot be entered.
var ErrResolveRoot = errors.New("cannot resolve fragment directory")

// Invocation is the per-run context derived from the command line. It is
// built once by Resolve and not modified afterwards.
type Invocation struct {
	FragmentDir string   // As given on the command line.
	Tags        []string // Trimmed, in command-line order.
	BaseDir     string   // Directory FragmentDir is relative to.
	OriginDir   string   // Working directory at program start.
	Root        string   // Absolute traversal root.

	tagSet naming.TagSet
}

// Selected reports whether f passes the tag filter.
func (inv *Invocation) Selected(f naming.Fragment) bool {
	return inv.tagSet.Selected(f)
}

// Resolve enters baseDir, then fragmentDir relative to it, and records the
// resulting directory as the traversal root. The process stays in the root
// on success. On failure the original working directory is restored.
func Resolve(baseDir, fragmentDir string, tags []string) (*Invocation, error) {
	origin, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolveRoot, err)
	}

	inv := &Invocation{
		FragmentDir: fragmentDir,
		Tags:        tags,
		BaseDir:     baseDir,
		OriginDir:   origin,
		tagSet:      naming.NewTagSet(tags),
	}

	if baseDir != "" {
		if err := os.Chdir(baseDir); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResolveRoot, err)
		}
	}
	if err := os.Chdir(fragmentDir); err != nil {
		_ = os.Chdir(origin)
		return nil, fmt.Errorf("%w: %v", ErrResolveRoot, err)
	}
	root, err := os.Getwd()
	if err != nil {
		_ = os.Chdir(origin)
		return nil, fmt.Errorf("%w: %v", ErrResolveRoot, err)
	}
	inv.Root = root
	return inv, nil
}
