package shell

import (
	"errors"
	"os/exec"
)

// Sentinel errors for failures of the runner itself, as opposed to a
// fragment exiting non-zero.
var (
	ErrNoCommand  = errors.New("interpreter command is empty")
	ErrEnvCapture = errors.New("shared fragment environment was not captured")
)

// ExitCode extracts the process exit status from a Run error. It returns 0
// for nil and -1 when the process never produced a status (not started,
// killed by a signal).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
