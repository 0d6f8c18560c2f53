// Package naming implements the fragment filename grammar and tag selection.
//
// A fragment is named stem.ext or stem.tag.ext, where stem and tag are word
// characters ([A-Za-z0-9_]) and ext is one of two configured extensions: the
// isolated extension (run in a disposable child shell) or the shared
// extension (sourced, exports flow back to the caller). Everything else,
// directories included, is not a fragment.
//
// Selection: an untagged fragment always runs; a tagged one runs only when
// its tag is in the active set.
package naming
