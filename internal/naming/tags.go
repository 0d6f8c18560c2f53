package naming

// TagSet is the set of active tags for a run.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from the parsed tag list.
func NewTagSet(tags []string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// Contains reports whether tag is active.
func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Selected reports whether f should run under the active tags: untagged
// fragments always run, tagged ones only when their tag is active.
func (s TagSet) Selected(f Fragment) bool {
	return !f.Tagged() || s.Contains(f.Tag)
}
