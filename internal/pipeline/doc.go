// Package pipeline runs a fragment tree: it resolves the traversal root,
// walks it in pre-order, selects fragments by grammar and tag, and hands
// each one to the matching interpreter.
//
// Files:
//   - invocation.go: Invocation, Resolve (program dir -> fragment dir -> root)
//   - discover.go:   Walk/Discover over a billy.Filesystem
//   - runner.go:     Dispatcher.Run, the discovery-and-dispatch loop
//   - stats.go:      RunStats counters
package pipeline
