package pipeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// Entry is one filesystem entry under the traversal root.
type Entry struct {
	Path  string // Absolute: root joined with the entry's relative path.
	Name  string
	IsDir bool
}

// WalkFunc is called for every entry in pre-order. If a directory cannot be
// listed, fn is called a second time for it with the error; returning nil
// continues the walk. Any other non-nil return stops it and is returned by
// Walk.
type WalkFunc func(e Entry, err error) error

// Walk visits every entry under fsys's root, directories before their
// contents, siblings sorted by name. fsys is expected to be rooted at root
// (osfs.New(root) or a memfs); root itself is not visited. Each directory
// is listed when the walk reaches it, so entries created by earlier
// fragments are still picked up. Symlinked directories are not descended.
func Walk(fsys billy.Filesystem, root string, fn WalkFunc) error {
	infos, err := fsys.ReadDir("/")
	if err != nil {
		return fmt.Errorf("read %s: %w", root, err)
	}
	return walkDir(fsys, root, "/", sortedNames(infos), fn)
}

type dirent struct {
	name  string
	isDir bool
}

func walkDir(fsys billy.Filesystem, root, rel string, ents []dirent, fn WalkFunc) error {
	for _, d := range ents {
		childRel := path.Join(rel, d.name)
		e := Entry{
			Path:  filepath.Join(root, filepath.FromSlash(childRel)),
			Name:  d.name,
			IsDir: d.isDir,
		}
		if err := fn(e, nil); err != nil {
			return err
		}
		if !d.isDir {
			continue
		}
		infos, err := fsys.ReadDir(childRel)
		if err != nil {
			if err := fn(e, err); err != nil {
				return err
			}
			continue
		}
		if err := walkDir(fsys, root, childRel, sortedNames(infos), fn); err != nil {
			return err
		}
	}
	return nil
}

func sortedNames(infos []os.FileInfo) []dirent {
	out := make([]dirent, 0, len(infos))
	for _, fi := range infos {
		out = append(out, dirent{name: fi.Name(), isDir: fi.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Discover collects every entry Walk would visit. Unreadable
// subdirectories are skipped.
func Discover(fsys billy.Filesystem, root string) ([]Entry, error) {
	var entries []Entry
	err := Walk(fsys, root, func(e Entry, err error) error {
		if err == nil {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
