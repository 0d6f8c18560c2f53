package shell

// hostArgv0 is $0 inside the shared host shell, shown in its error messages.
const hostArgv0 = "shellwrapper"

// BuildIsolated returns the argv for running path in an isolated child:
// the configured command words followed by the fragment path.
func BuildIsolated(command []string, path string) []string {
	args := make([]string, 0, len(command)+1)
	args = append(args, command...)
	return append(args, path)
}

// BuildShared returns the argv for sourcing path inside shellBin. Once the
// fragment returns, the host shell writes its exported environment
// NUL-separated to envFile. An EXIT trap writes the same dump when the
// fragment calls exit instead of returning. Positional parameters are
// cleared before sourcing so the fragment does not see the host's
// arguments, and the host's own variables are readonly so the fragment
// cannot redirect the dump.
func BuildShared(shellBin, sourceCmd, path, envFile string) []string {
	return []string{shellBin, "-c", hostScript(sourceCmd), hostArgv0, path, envFile}
}

func hostScript(sourceCmd string) string {
	return `readonly __shellwrapper_path="$1" __shellwrapper_env="$2"
set --
trap 'env -0 > "$__shellwrapper_env"' EXIT
` + sourceCmd + ` "$__shellwrapper_path"
__shellwrapper_rc=$?
env -0 > "$__shellwrapper_env"
exit "$__shellwrapper_rc"
`
}
