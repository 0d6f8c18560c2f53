package naming

import (
	"path/filepath"
	"regexp"
)

// Kind selects how a fragment is executed.
type Kind int

const (
	KindIsolated Kind = iota + 1 // Child shell; cannot affect the caller.
	KindShared                   // Sourced; exports propagate to the caller.
)

// String returns a short lowercase name for logs.
func (k Kind) String() string {
	switch k {
	case KindIsolated:
		return "isolated"
	case KindShared:
		return "shared"
	}
	return "unknown"
}

// Fragment is a filesystem entry whose base name matched the grammar.
type Fragment struct {
	Path string // Full path as produced by discovery.
	Name string // Base filename.
	Stem string
	Tag  string // Empty when the name carries no tag.
	Kind Kind
}

// Tagged reports whether the filename carried a tag component.
func (f Fragment) Tagged() bool { return f.Tag != "" }

// Grammar matches fragment filenames for one pair of extensions.
type Grammar struct {
	IsolatedExt string
	SharedExt   string
	pattern     *regexp.Regexp
}

// NewGrammar compiles the grammar for the given extensions. Extensions are
// matched literally.
func NewGrammar(isolatedExt, sharedExt string) *Grammar {
	return &Grammar{
		IsolatedExt: isolatedExt,
		SharedExt:   sharedExt,
		pattern: regexp.MustCompile(`^(\w+)\.(?:(\w+)\.)?(` +
			regexp.QuoteMeta(isolatedExt) + `|` + regexp.QuoteMeta(sharedExt) + `)$`),
	}
}

// Parse tests the base name of path against the grammar. The second return
// is false for anything that is not a fragment.
func (g *Grammar) Parse(path string) (Fragment, bool) {
	name := filepath.Base(path)
	m := g.pattern.FindStringSubmatch(name)
	if m == nil {
		return Fragment{}, false
	}

	f := Fragment{
		Path: path,
		Name: name,
		Stem: m[1],
		Tag:  m[2],
	}
	switch m[3] {
	case g.IsolatedExt:
		f.Kind = KindIsolated
	case g.SharedExt:
		f.Kind = KindShared
	}
	return f, true
}
