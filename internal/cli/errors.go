package cli

import (
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitError carries the exit code for a failed invocation. An empty
// Message means the user has already been told what went wrong.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func failf(format string, args ...any) error {
	return &ExitError{Code: ExitFailure, Message: fmt.Sprintf(format, args...)}
}

// exitCode maps an Execute error to a process exit code, printing its
// message to stderr.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr != nil {
		if exitErr.Message != "" {
			fmt.Fprintf(stderr, "shellwrapper: %s\n", exitErr.Message)
		}
		if exitErr.Code != 0 {
			return exitErr.Code
		}
		return ExitFailure
	}
	// Flag parsing and other cobra errors.
	fmt.Fprintf(stderr, "shellwrapper: %v\n", err)
	return ExitFailure
}
