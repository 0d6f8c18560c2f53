// Package check provides interpreter diagnostics (--check mode) and the
// pre-run dependency validation (CheckDeps) for the isolated command, the
// shared host shell, and the env(1) binary used to capture exports.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/shellwrapper/internal/config"
)

// Sentinel errors returned when a required interpreter is missing or unusable.
var (
	ErrIsolatedNotFound = errors.New("isolated interpreter not found on PATH")
	ErrSharedNotFound   = errors.New("shared shell not found on PATH")
	ErrEnvNotFound      = errors.New("env not found on PATH")
	ErrSourceFailed     = errors.New("shared shell cannot source files")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck runs the --check flow: reports each interpreter's location and
// version, and whether the shared shell accepts the source command. It
// returns the joined failures, nil when everything is usable.
func RunCheck(cfg *config.Config, log Logger) error {
	log.Info("=== Interpreter Check ===")

	var errs []error
	argv := cfg.IsolatedArgv()
	if err := checkBinary(log, "isolated", firstWord(argv), ErrIsolatedNotFound); err != nil {
		errs = append(errs, err)
	}
	if err := checkBinary(log, "shared", cfg.SharedShell, ErrSharedNotFound); err != nil {
		errs = append(errs, err)
	} else if err := checkSource(log, cfg); err != nil {
		errs = append(errs, err)
	}
	if _, err := exec.LookPath("env"); err != nil {
		log.Error("env not found (needed to carry exports between fragments)")
		errs = append(errs, ErrEnvNotFound)
	} else {
		log.Success("env: found")
	}

	log.Info("Extensions: isolated .%s, shared .%s", cfg.IsolatedExt, cfg.SharedExt)
	return errors.Join(errs...)
}

// checkBinary verifies name is on PATH and logs its first --version line.
func checkBinary(log Logger, role, name string, notFound error) error {
	path, err := exec.LookPath(name)
	if err != nil {
		log.Error("%s interpreter %q not found", role, name)
		return fmt.Errorf("%w: %q", notFound, name)
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		log.Success("%s: %s", role, path)
		log.Debug("%s --version failed: %v", name, err)
		return nil
	}
	log.Success("%s: %s (%s)", role, path, firstLine(string(out)))
	return nil
}

// checkSource sources /dev/null in the shared shell to verify the source
// command exists there.
func checkSource(log Logger, cfg *config.Config) error {
	if runSilent(cfg.SharedShell, "-c", cfg.SourceCommand+" /dev/null") {
		log.Success("%s %s works", cfg.SharedShell, cfg.SourceCommand)
		return nil
	}
	log.Error("%s cannot run %q", cfg.SharedShell, cfg.SourceCommand)
	return fmt.Errorf("%w: %s -c %q", ErrSourceFailed, cfg.SharedShell, cfg.SourceCommand)
}

// CheckDeps is the pre-run validation: it verifies that both interpreters
// and env are on PATH. It returns the first failure as a sentinel error.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(firstWord(cfg.IsolatedArgv())); err != nil {
		return ErrIsolatedNotFound
	}
	if _, err := exec.LookPath(cfg.SharedShell); err != nil {
		return ErrSharedNotFound
	}
	if _, err := exec.LookPath("env"); err != nil {
		return ErrEnvNotFound
	}
	return nil
}

// --- internal helpers ---

func firstWord(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return argv[0]
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
