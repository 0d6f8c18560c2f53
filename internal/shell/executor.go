package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/backmassage/shellwrapper/internal/config"
)

// Result holds the outcome of a single fragment invocation.
type Result struct {
	Argv     []string
	ExitCode int
	Err      error     // Start or wait failure, including non-zero exit.
	Env      EnvChange // Shared fragments only.
	EnvErr   error     // Shared fragments only: capture or import failure.
}

// Runner invokes the configured interpreters. Streams default to the
// process's own, so children write straight to the terminal.
type Runner struct {
	IsolatedCommand []string
	SharedShell     string
	SourceCommand   string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    Environ

	// TempDir holds the environment dump files. Empty means os.TempDir.
	TempDir string
}

// NewRunner builds a Runner from cfg, bound to the process streams and
// environment.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		IsolatedCommand: cfg.IsolatedArgv(),
		SharedShell:     cfg.SharedShell,
		SourceCommand:   cfg.SourceCommand,
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Env:             OSEnviron{},
	}
}

// RunIsolated runs path in a disposable child and waits for it.
func (r *Runner) RunIsolated(path string) Result {
	if len(r.IsolatedCommand) == 0 {
		return Result{ExitCode: -1, Err: ErrNoCommand}
	}
	argv := BuildIsolated(r.IsolatedCommand, path)
	err := r.command(argv).Run()
	return Result{Argv: argv, ExitCode: ExitCode(err), Err: err}
}

// RunShared sources path in the host shell, waits for it, and imports the
// environment it leaves behind into r.Env.
func (r *Runner) RunShared(path string) Result {
	if r.SharedShell == "" || r.SourceCommand == "" {
		return Result{ExitCode: -1, Err: ErrNoCommand}
	}

	dump, err := os.CreateTemp(r.TempDir, "shellwrapper-env-*")
	if err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("create env dump: %w", err)}
	}
	dumpPath := dump.Name()
	dump.Close()
	defer os.Remove(dumpPath)

	before := r.Env.Environ()
	argv := BuildShared(r.SharedShell, r.SourceCommand, path, dumpPath)
	runErr := r.command(argv).Run()
	res := Result{Argv: argv, ExitCode: ExitCode(runErr), Err: runErr}

	content, err := os.ReadFile(dumpPath)
	switch {
	case err != nil:
		res.EnvErr = fmt.Errorf("%w: %v", ErrEnvCapture, err)
		return res
	case len(content) == 0:
		// The host shell died before its EXIT trap (e.g. killed by a signal).
		res.EnvErr = ErrEnvCapture
		return res
	}

	change, err := ImportEnv(r.Env, before, content)
	res.Env = change
	if err != nil {
		res.EnvErr = errors.Join(ErrEnvCapture, err)
	}
	return res
}

func (r *Runner) command(argv []string) *exec.Cmd {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if r.Env != nil {
		cmd.Env = r.Env.Environ()
	}
	return cmd
}
