package check

import (
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/shellwrapper/internal/config"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) add(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Info(f string, a ...interface{})    { r.add("INFO", f, a...) }
func (r *recordingLogger) Success(f string, a ...interface{}) { r.add("OK", f, a...) }
func (r *recordingLogger) Warn(f string, a ...interface{})    { r.add("WARN", f, a...) }
func (r *recordingLogger) Error(f string, a ...interface{})   { r.add("ERROR", f, a...) }
func (r *recordingLogger) Debug(f string, a ...interface{})   { r.add("DEBUG", f, a...) }

func (r *recordingLogger) joined() string { return strings.Join(r.lines, "\n") }

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func TestRunCheck_Defaults(t *testing.T) {
	requireBash(t)
	cfg := config.DefaultConfig()
	log := &recordingLogger{}

	require.NoError(t, RunCheck(&cfg, log))
	out := log.joined()
	assert.Contains(t, out, "OK isolated: ")
	assert.Contains(t, out, "OK shared: ")
	assert.Contains(t, out, "OK bash source works")
	assert.Contains(t, out, "Extensions: isolated .sh, shared .export")
}

func TestRunCheck_MissingInterpreters(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IsolatedCommand = "no-such-interpreter-xyz -e"
	cfg.SharedShell = "no-such-shell-xyz"
	log := &recordingLogger{}

	err := RunCheck(&cfg, log)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIsolatedNotFound)
	assert.ErrorIs(t, err, ErrSharedNotFound)
	assert.NotErrorIs(t, err, ErrSourceFailed, "source is only tried when the shell exists")
	assert.Contains(t, log.joined(), `ERROR isolated interpreter "no-such-interpreter-xyz" not found`)
}

func TestRunCheck_BadSourceCommand(t *testing.T) {
	requireBash(t)
	cfg := config.DefaultConfig()
	cfg.SourceCommand = "no_such_builtin_xyz"
	log := &recordingLogger{}

	err := RunCheck(&cfg, log)
	assert.ErrorIs(t, err, ErrSourceFailed)
}

func TestCheckDeps(t *testing.T) {
	requireBash(t)
	cfg := config.DefaultConfig()
	assert.NoError(t, CheckDeps(&cfg))

	cfg.SharedShell = "no-such-shell-xyz"
	assert.ErrorIs(t, CheckDeps(&cfg), ErrSharedNotFound)

	cfg = config.DefaultConfig()
	cfg.IsolatedCommand = ""
	assert.ErrorIs(t, CheckDeps(&cfg), ErrIsolatedNotFound)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "GNU bash, version 5.2", firstLine("\nGNU bash, version 5.2\nCopyright\n"))
	assert.Equal(t, "single", firstLine("single"))
	assert.Equal(t, "", firstLine(""))
}
