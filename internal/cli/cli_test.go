package cli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG lookups at empty directories and moves into a scratch
// working directory, so the user's own config and cwd cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	origin := t.TempDir()
	t.Chdir(origin)
	return origin
}

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

// fragmentTree writes files (name -> body) under base/parts and returns base.
func fragmentTree(t *testing.T, files map[string]string) string {
	t.Helper()
	base := t.TempDir()
	for name, body := range files {
		p := filepath.Join(base, "parts", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(base, "parts"), 0o755))
	return base
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), "test", args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_MissingDirectory(t *testing.T) {
	isolate(t)
	code, stdout, stderr := execute(t)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, MissingDirMessage)
	assert.Contains(t, stdout, "Usage:")
	assert.NotContains(t, stdout, "Starting on", "no traversal without a directory")
	assert.Empty(t, stderr)
}

func TestExecute_TooManyArgs(t *testing.T) {
	isolate(t)
	code, _, stderr := execute(t, "parts", "a", "b")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "too many arguments")
}

func TestExecute_UnknownFlag(t *testing.T) {
	isolate(t)
	code, _, stderr := execute(t, "--bogus", "parts")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "bogus")
}

func TestExecute_Version(t *testing.T) {
	isolate(t)
	code, stdout, _ := execute(t, "--version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "test")
}

func TestExecute_RunsSelectedFragments(t *testing.T) {
	requireBash(t)
	origin := isolate(t)
	base := fragmentTree(t, map[string]string{
		"a.sh":          "echo ran-a\n",
		"a.tagX.sh":     "echo ran-tagX\n",
		"a.tagY.export": "echo ran-tagY\n",
	})

	code, stdout, _ := execute(t, "--base-dir", base, "--no-color", "parts", " tagX , other")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Starting on ")
	assert.Contains(t, stdout, "SUBSHELL: a.sh\n")
	assert.Contains(t, stdout, "SUBSHELL: a.tagX.sh\n")
	assert.Contains(t, stdout, "ran-a\n")
	assert.Contains(t, stdout, "ran-tagX\n")
	assert.NotContains(t, stdout, "EXPORTSHELL")
	assert.NotContains(t, stdout, "ran-tagY")
	assert.Contains(t, stdout, "Ending on ")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, origin, cwd, "working directory is restored at the end")
}

func TestExecute_FragmentFailureStillSucceeds(t *testing.T) {
	requireBash(t)
	isolate(t)
	base := fragmentTree(t, map[string]string{
		"a.sh": "exit 7\n",
		"b.sh": "echo after\n",
	})

	code, stdout, _ := execute(t, "--base-dir", base, "parts")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "after\n")
}

func TestExecute_ExportsReachLaterFragments(t *testing.T) {
	requireBash(t)
	isolate(t)
	base := fragmentTree(t, map[string]string{
		"1.export": "export SW_CLI_STAGE=shared\n",
		"2.sh":     "echo \"stage=$SW_CLI_STAGE\"\n",
	})
	t.Cleanup(func() { os.Unsetenv("SW_CLI_STAGE") })

	code, stdout, _ := execute(t, "--base-dir", base, "parts")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "stage=shared\n")
}

func TestExecute_DryRun(t *testing.T) {
	isolate(t)
	marker := filepath.Join(t.TempDir(), "ran")
	base := fragmentTree(t, map[string]string{
		"a.sh": "touch " + marker + "\n",
	})

	code, stdout, _ := execute(t, "--base-dir", base, "-n", "parts")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "[DRY] would run ")
	assert.NoFileExists(t, marker)
}

func TestExecute_MissingFragmentDir(t *testing.T) {
	isolate(t)
	base := t.TempDir()

	code, stdout, stderr := execute(t, "--base-dir", base, "nope")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "cannot resolve fragment directory")
	assert.NotContains(t, stdout, "Starting on")
}

func TestExecute_ConfigFileSelectsLegacyExtension(t *testing.T) {
	requireBash(t)
	isolate(t)
	base := fragmentTree(t, map[string]string{
		"a.exportsh": "echo legacy\n",
		"b.export":   "echo modern\n",
	})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("shared_ext: exportsh\n"), 0o644))

	code, stdout, _ := execute(t, "--config", cfgPath, "--base-dir", base, "parts")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "EXPORTSHELL: a.exportsh\n")
	assert.Contains(t, stdout, "legacy\n")
	assert.NotContains(t, stdout, "modern")
}

func TestExecute_XDGConfigFile(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "shellwrapper")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("isolated_ext = \"bash\"\n"), 0o644))
	base := fragmentTree(t, map[string]string{"a.bash": "true\n", "b.sh": "true\n"})

	code, stdout, _ := execute(t, "--base-dir", base, "-n", "parts")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "SUBSHELL: a.bash\n")
	assert.NotContains(t, stdout, "SUBSHELL: b.sh")
}

func TestExecute_BadConfigFile(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("no_such_key: 1\n"), 0o644))

	code, _, stderr := execute(t, "--config", cfgPath, "parts")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "shellwrapper: ")
}

func TestExecute_Check(t *testing.T) {
	requireBash(t)
	isolate(t)
	code, _, stderr := execute(t, "--check", "--no-color")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "Interpreter Check")
}

func TestExecute_CheckMissingInterpreter(t *testing.T) {
	isolate(t)
	code, _, stderr := execute(t, "-c", "--shared-shell", "no-such-shell-xyz")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "no-such-shell-xyz")
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ExitSuccess, exitCode(nil, &buf))
	assert.Equal(t, 3, exitCode(&ExitError{Code: 3, Message: "boom"}, &buf))
	assert.Equal(t, ExitFailure, exitCode(&ExitError{}, &buf))
	assert.Equal(t, "shellwrapper: boom\n", buf.String())
}
