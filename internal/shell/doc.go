// Package shell runs fragments through external interpreters.
//
// Isolated fragments run as `<isolated-command...> <path>` (default
// `bash -e <path>`) in a child process that cannot touch the caller.
//
// Shared fragments are sourced inside a host shell (default bash). Sourcing
// in a child cannot change the parent process by itself, so the host shell
// dumps its exported environment to a temporary file on exit and the
// changes are imported into the caller's [Environ]. Later fragments inherit
// them. Directory changes made by the fragment are not imported; restoring
// the working directory is the dispatcher's job.
//
// Both kinds run synchronously with inherited stdin/stdout/stderr so their
// output interleaves with the trace in real time.
package shell
